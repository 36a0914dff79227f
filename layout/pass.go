package layout

import (
	"math"

	"github.com/RLabs-Inc/sparktui/sns"
)

func max0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// effectiveAlign resolves a child's align_self against the container's
// align_items, honoring the AlignAuto "inherit" sentinel on either side.
func effectiveAlign(containerAlign, selfAlign sns.Align) sns.Align {
	if selfAlign != sns.AlignAuto {
		return selfAlign
	}
	if containerAlign != sns.AlignAuto {
		return containerAlign
	}
	return sns.AlignStretch
}

// measure is LE's bottom-up sizing pass (§4.4 steps 2-4): leaves measure
// their intrinsic size, containers distribute free main-axis space via
// flex_grow/flex_shrink and size their cross axis per align_items/
// align_self, with Auto dimensions computed from content.
func (e *Engine) measure(idx int32, nodes []sns.Node, children map[int32][]int32, availW, availH float32) (float32, float32) {
	n := &nodes[idx]

	if n.Display == sns.DisplayNone {
		n.ComputedW, n.ComputedH = 0, 0
		n.ContentW, n.ContentH = 0, 0
		return 0, 0
	}

	borderH := float32(n.BorderLWidth + n.BorderRWidth)
	borderV := float32(n.BorderTWidth + n.BorderBWidth)
	deductH := n.PaddingL + n.PaddingR + borderH
	deductV := n.PaddingT + n.PaddingB + borderV

	outerW := clampf(resolveSize(n.Width, availW, availW), resolveSize(n.MinW, availW, 0), resolveSize(n.MaxW, availW, sns.Auto))
	outerH := clampf(resolveSize(n.Height, availH, availH), resolveSize(n.MinH, availH, 0), resolveSize(n.MaxH, availH, sns.Auto))

	contentW := outerW - deductH
	contentH := outerH - deductV
	if contentW < 0 {
		contentW = 0
	}
	if contentH < 0 {
		contentH = 0
	}

	if n.ComponentType == sns.ComponentText || n.ComponentType == sns.ComponentInput {
		return e.measureLeaf(n, idx, availW, availH, deductH, deductV, contentW, contentH)
	}

	return e.measureContainer(n, idx, nodes, children, deductH, deductV, contentW, contentH)
}

func (e *Engine) measureLeaf(n *sns.Node, idx int32, availW, availH, deductH, deductV, contentW, contentH float32) (float32, float32) {
	text := e.store.ReadText(idx)

	finalContentW := contentW
	if sns.IsAuto(n.Width) {
		finalContentW = float32(intrinsicWidth(text))
		if cap := availW - deductH; finalContentW > cap {
			finalContentW = cap
		}
		if finalContentW < 0 {
			finalContentW = 0
		}
	}

	lines := wrapAndMeasureHeight(text, int(finalContentW), n.TextWrap)
	finalContentH := contentH
	if sns.IsAuto(n.Height) {
		finalContentH = float32(lines)
	}

	n.ContentW, n.ContentH = finalContentW, finalContentH
	fw, fh := finalContentW+deductH, finalContentH+deductV
	n.ComputedW, n.ComputedH = fw, fh
	return fw, fh
}

func (e *Engine) measureContainer(n *sns.Node, idx int32, nodes []sns.Node, children map[int32][]int32, deductH, deductV, contentW, contentH float32) (float32, float32) {
	mainIsRow := isMainAxisRow(n.FlexDirection)
	var mainAvail, crossAvail float32
	if mainIsRow {
		mainAvail, crossAvail = contentW, contentH
	} else {
		mainAvail, crossAvail = contentH, contentW
	}

	kids := children[idx]
	var flowKids []int32
	for _, c := range kids {
		if nodes[c].Position != sns.PositionAbsolute {
			flowKids = append(flowKids, c)
		}
	}

	gapMain := n.RowGap
	if mainIsRow {
		gapMain = n.ColumnGap
	}
	if gapMain == 0 {
		gapMain = n.Gap
	}

	count := len(flowKids)
	bases := make([]float32, count)
	grows := make([]float32, count)
	shrinkWeights := make([]float32, count)
	sumBasis, sumGrow, sumShrink := float32(0), float32(0), float32(0)

	for i, c := range flowKids {
		cn := &nodes[c]
		basis := e.flexBasis(cn, c, nodes, children, mainIsRow, mainAvail, crossAvail)
		bases[i] = basis
		sumBasis += basis
		grows[i] = cn.FlexGrow
		sumGrow += cn.FlexGrow
		sw := cn.FlexShrink * basis
		shrinkWeights[i] = sw
		sumShrink += sw
	}

	gapsTotal := gapMain * float32(max0(count-1))
	free := mainAvail - sumBasis - gapsTotal

	finalMain := make([]float32, count)
	for i, c := range flowKids {
		cn := &nodes[c]
		fm := bases[i]
		switch {
		case free > 0 && sumGrow > 0:
			fm += free * grows[i] / sumGrow
		case free < 0 && sumShrink > 0:
			fm += free * shrinkWeights[i] / sumShrink
		}
		var minF, maxF float32
		if mainIsRow {
			minF, maxF = cn.MinW, cn.MaxW
		} else {
			minF, maxF = cn.MinH, cn.MaxH
		}
		finalMain[i] = clampf(fm, resolveSize(minF, mainAvail, 0), resolveSize(maxF, mainAvail, sns.Auto))
	}
	// Residue absorption (§4.4 tie-break: "when floating sums do not quite
	// fill the container due to rounding, the last item absorbs the
	// residue") only applies once flexible children were asked to fill or
	// shrink to the available space; with no grow/shrink weights at all,
	// forcing an exact fill would turn genuine content overflow (more
	// children than fit) into silently clamped/negative sizes instead of
	// the scrollable overflow §4.4 step 6 expects.
	if count > 0 && ((free > 0 && sumGrow > 0) || (free < 0 && sumShrink > 0)) {
		sum := float32(0)
		for _, v := range finalMain {
			sum += v
		}
		finalMain[count-1] += mainAvail - sum - gapsTotal
	}

	crossSizes := make([]float32, count)
	for i, c := range flowKids {
		cn := &nodes[c]
		if mainIsRow {
			_, h := e.measure(c, nodes, children, finalMain[i], crossAvail)
			crossSizes[i] = h
			if sns.IsAuto(cn.Width) && cn.Display != sns.DisplayNone {
				cn.ComputedW = finalMain[i]
			}
			finalMain[i] = cn.ComputedW
		} else {
			w, _ := e.measure(c, nodes, children, crossAvail, finalMain[i])
			crossSizes[i] = w
			if sns.IsAuto(cn.Height) && cn.Display != sns.DisplayNone {
				cn.ComputedH = finalMain[i]
			}
			finalMain[i] = cn.ComputedH
		}
	}

	maxCross := float32(0)
	for _, cs := range crossSizes {
		if cs > maxCross {
			maxCross = cs
		}
	}
	sumMain := float32(0)
	for _, v := range finalMain {
		sumMain += v
	}
	mainTotal := sumMain + gapsTotal

	// footprintW/H is the actual space the children occupy, independent of
	// whether this box's own size is auto or fixed — it's what drives
	// scroll_max (§4.4 step 6) when a fixed-size container's children
	// overflow it. boxW/H is the viewport the container itself presents:
	// the resolved fixed/percent size, or the footprint when auto.
	var footprintW, footprintH float32
	if mainIsRow {
		footprintW, footprintH = mainTotal, maxCross
	} else {
		footprintW, footprintH = maxCross, mainTotal
	}

	boxW, boxH := contentW, contentH
	if sns.IsAuto(n.Width) {
		boxW = footprintW
	}
	if sns.IsAuto(n.Height) {
		boxH = footprintH
	}

	n.ContentW, n.ContentH = footprintW, footprintH
	fw, fh := boxW+deductH, boxH+deductV
	n.ComputedW, n.ComputedH = fw, fh

	for _, c := range kids {
		if nodes[c].Position == sns.PositionAbsolute {
			e.measure(c, nodes, children, boxW, boxH)
		}
	}

	return fw, fh
}

// flexBasis resolves one child's base main-axis size per §4.4 step 3:
// flex_basis if set, else the corresponding width/height if set, else the
// child's intrinsic size.
func (e *Engine) flexBasis(cn *sns.Node, idx int32, nodes []sns.Node, children map[int32][]int32, mainIsRow bool, mainAvail, crossAvail float32) float32 {
	if !sns.IsAuto(cn.FlexBasis) {
		return resolveSize(cn.FlexBasis, mainAvail, 0)
	}
	var sizeField float32
	if mainIsRow {
		sizeField = cn.Width
	} else {
		sizeField = cn.Height
	}
	if !sns.IsAuto(sizeField) {
		return resolveSize(sizeField, mainAvail, 0)
	}
	var w, h float32
	if mainIsRow {
		w, h = e.measure(idx, nodes, children, mainAvail, crossAvail)
		_ = h
		return w
	}
	w, h = e.measure(idx, nodes, children, crossAvail, mainAvail)
	_ = w
	return h
}

// position is LE's top-down placement pass (§4.4 steps 4-5): resolves
// justify_content along the main axis, align_items/align_self along the
// cross axis, applies node margin, and positions position:absolute
// children against the padding box via inset_*.
func (e *Engine) position(idx int32, nodes []sns.Node, children map[int32][]int32, x, y float32) {
	n := &nodes[idx]
	n.ComputedX, n.ComputedY = x, y

	if n.Display == sns.DisplayNone {
		return
	}

	borderT, borderL := float32(n.BorderTWidth), float32(n.BorderLWidth)
	innerX := x + n.PaddingL + borderL
	innerY := y + n.PaddingT + borderT

	kids := children[idx]
	var flowKids []int32
	for _, c := range kids {
		if nodes[c].Position != sns.PositionAbsolute {
			flowKids = append(flowKids, c)
		}
	}

	mainIsRow := isMainAxisRow(n.FlexDirection)
	reverse := isReverse(n.FlexDirection)

	// Free space for justify_content/align_items is computed against the
	// viewport this box presents (computed size minus its own padding/
	// border), not content_w/h — content_w/h is the children's footprint,
	// which on an overflowing fixed-size container is larger than the
	// viewport by definition (that's what makes it scrollable).
	borderV := float32(n.BorderTWidth + n.BorderBWidth)
	borderH := float32(n.BorderLWidth + n.BorderRWidth)
	innerW := n.ComputedW - n.PaddingL - n.PaddingR - borderH
	innerH := n.ComputedH - n.PaddingT - n.PaddingB - borderV

	var mainSize, crossSize float32
	if mainIsRow {
		mainSize, crossSize = innerW, innerH
	} else {
		mainSize, crossSize = innerH, innerW
	}

	gapMain := n.RowGap
	if mainIsRow {
		gapMain = n.ColumnGap
	}
	if gapMain == 0 {
		gapMain = n.Gap
	}

	count := len(flowKids)
	mains := make([]float32, count)
	crosses := make([]float32, count)
	sumMain := float32(0)
	for i, c := range flowKids {
		cn := &nodes[c]
		if mainIsRow {
			mains[i], crosses[i] = cn.ComputedW, cn.ComputedH
		} else {
			mains[i], crosses[i] = cn.ComputedH, cn.ComputedW
		}
		sumMain += mains[i]
	}
	gapsTotal := gapMain * float32(max0(count-1))
	free := mainSize - sumMain - gapsTotal
	if free < 0 {
		free = 0
	}

	offset, between := justifyOffsets(n.Justify, free, count)

	if reverse {
		reverseFloat32(mains)
		reverseFloat32(crosses)
		reverseInt32(flowKids)
	}

	cursor := offset
	for i, c := range flowKids {
		cn := &nodes[c]
		cross := crosses[i]
		align := effectiveAlign(n.AlignItems, cn.AlignSelf)
		crossOffset := crossOffsetFor(align, crossSize, cross)

		// cursor itself stays exact; only the placed position is snapped to
		// a cell. Rounding the exact cumulative value fresh each iteration
		// is what keeps fractional justify_content offsets (space-around's
		// free/count division, say) from drifting across siblings, the
		// same residue-absorption measureContainer does for flex_grow sums.
		mainPos := roundf(cursor)

		var cx, cy float32
		if mainIsRow {
			cx, cy = innerX+mainPos, innerY+crossOffset
		} else {
			cx, cy = innerX+crossOffset, innerY+mainPos
		}
		cx += cn.MarginL
		cy += cn.MarginT

		e.position(c, nodes, children, cx, cy)
		cursor += mains[i] + gapMain + between
	}

	for _, c := range kids {
		cn := &nodes[c]
		if cn.Position != sns.PositionAbsolute {
			continue
		}
		padX, padY := x+borderL, y+borderT
		ax, ay := padX, padY
		if !sns.IsAuto(cn.InsetL) {
			ax = padX + cn.InsetL
		} else if !sns.IsAuto(cn.InsetR) {
			ax = padX + n.ComputedW - borderH - cn.InsetR - cn.ComputedW
		}
		if !sns.IsAuto(cn.InsetT) {
			ay = padY + cn.InsetT
		} else if !sns.IsAuto(cn.InsetB) {
			ay = padY + n.ComputedH - borderV - cn.InsetB - cn.ComputedH
		}
		e.position(c, nodes, children, ax, ay)
	}
}

// justifyOffsets returns the leading offset before the first item and the
// extra per-gap space justify_content injects between items (§4.4 step 4).
// A single child under space-between behaves like flex-start, per the
// spec's explicit tie-break rule.
func justifyOffsets(j sns.Justify, free float32, count int) (leading, between float32) {
	switch j {
	case sns.JustifyFlexEnd:
		return free, 0
	case sns.JustifyCenter:
		return free / 2, 0
	case sns.JustifySpaceBetween:
		if count <= 1 {
			return 0, 0
		}
		return 0, free / float32(count-1)
	case sns.JustifySpaceAround:
		if count == 0 {
			return 0, 0
		}
		each := free / float32(count)
		return each / 2, each
	case sns.JustifySpaceEvenly:
		each := free / float32(count+1)
		return each, each
	default: // JustifyFlexStart
		return 0, 0
	}
}

func roundf(v float32) float32 {
	return float32(math.Round(float64(v)))
}

func crossOffsetFor(align sns.Align, containerCross, itemCross float32) float32 {
	switch align {
	case sns.AlignFlexEnd:
		return containerCross - itemCross
	case sns.AlignCenter:
		return (containerCross - itemCross) / 2
	default: // Stretch, FlexStart, Baseline (baseline treated as flex-start)
		return 0
	}
}

func reverseFloat32(s []float32) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseInt32(s []int32) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
