// Command demo exercises mount end-to-end with the reactive counter
// scenario (§8 scenario 1): a box with a border, a title, a count that
// advances once a second, and a footer — the same shape as the teacher's
// cmd/example2_counter, updated for box/text primitives instead of a
// template string.
package main

import (
	"fmt"
	"log"
	"time"

	"github.com/RLabs-Inc/sparktui"
	"github.com/RLabs-Inc/sparktui/binder"
	"github.com/RLabs-Inc/sparktui/internal/color"
	"github.com/RLabs-Inc/sparktui/reactive"
	"github.com/RLabs-Inc/sparktui/sns"
)

func main() {
	count := reactive.New(0)
	countText := reactive.NewDerived(func() string {
		return fmt.Sprintf("Current count: %d", count.Get())
	})

	theme := sparktui.NewTheme()

	build := func(tree *binder.Tree) {
		_, err := binder.Box(tree, binder.BoxConfig{
			Width:        binder.Fixed(40),
			Height:       binder.Fixed(7),
			FlexDirection: sns.DirectionColumn,
			Justify:      sns.JustifyCenter,
			AlignItems:   sns.AlignCenter,
			Padding:      1,
			BorderStyle:  sns.BorderRounded,
			BorderWidth:  1,
			BorderColor:  theme.Color(color.SlotBorder),
			BgColor:      theme.Color(color.SlotSurface),
			FgColor:      theme.Color(color.SlotText),
			Children: func() {
				binder.Text(tree, binder.TextConfig{
					Content: "Reactive Counter",
					Align:   sns.TextAlignCenter,
					Attrs:   sns.AttrBold,
					FgColor: theme.Color(color.SlotPrimary),
				})
				binder.Text(tree, binder.TextConfig{
					Content: countText,
					Align:   sns.TextAlignCenter,
				})
				binder.Text(tree, binder.TextConfig{
					Content: "Press Ctrl+C to exit",
					Align:   sns.TextAlignCenter,
					FgColor: theme.Color(color.SlotMuted),
				})
			},
		})
		if err != nil {
			log.Fatalf("demo: building tree: %v", err)
		}
	}

	handle, err := sparktui.Mount(build, sparktui.Options{Mode: sparktui.ModeFullscreen})
	if err != nil {
		log.Fatalf("demo: mount: %v", err)
	}
	defer handle.Unmount()

	go func() {
		for {
			time.Sleep(time.Second)
			count.Update(func(v int) int { return v + 1 })
		}
	}()

	select {}
}
