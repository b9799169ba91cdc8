package rundoc

// Insert inserts text at a plain offset. Text inserted strictly inside a
// run takes that run's style; text inserted on a run boundary is plain.
func (d *Document) Insert(offset int, text string) (*Document, error) {
	if err := d.checkOffset(offset); err != nil {
		return nil, err
	}
	return d.insertRuns(offset, []Run{{Text: text, Style: d.interiorStyle(offset)}}), nil
}

// InsertStyled inserts text with an explicit style. The empty name inserts plain text.
func (d *Document) InsertStyled(offset int, text, name string) (*Document, error) {
	if err := d.checkOffset(offset); err != nil {
		return nil, err
	}
	if err := d.checkStyle(name); err != nil {
		return nil, err
	}
	return d.insertRuns(offset, []Run{{Text: text, Style: name}}), nil
}

// InsertDocument splices the runs of frag at a plain offset. Plain runs of
// frag landing strictly inside a styled run take that run's style; styled
// runs of frag keep their own.
func (d *Document) InsertDocument(offset int, frag *Document) (*Document, error) {
	if err := d.checkOffset(offset); err != nil {
		return nil, err
	}
	for _, r := range frag.runs {
		if err := d.checkStyle(r.Style); err != nil {
			return nil, err
		}
	}
	inherit := d.interiorStyle(offset)
	runs := frag.Runs()
	for i := range runs {
		if runs[i].IsPlain() {
			runs[i].Style = inherit
		}
	}
	return d.insertRuns(offset, runs), nil
}

func (d *Document) insertRuns(offset int, mid []Run) *Document {
	left, right := d.split(offset)
	runs := make([]Run, 0, len(left)+len(mid)+len(right))
	runs = append(runs, left...)
	runs = append(runs, mid...)
	runs = append(runs, right...)
	return build(d.reg, runs)
}

// DeleteRange removes the plain range [start, end).
func (d *Document) DeleteRange(start, end int) (*Document, error) {
	if err := d.checkRange(start, end); err != nil {
		return nil, err
	}
	left, _ := d.split(start)
	_, right := d.split(end)
	return build(d.reg, append(left, right...)), nil
}

// ReplaceRange deletes [start, end) and inserts text in its place as one
// edit. An empty style name follows Insert's inheritance rule.
func (d *Document) ReplaceRange(start, end int, text, name string) (*Document, error) {
	if err := d.checkRange(start, end); err != nil {
		return nil, err
	}
	if err := d.checkStyle(name); err != nil {
		return nil, err
	}
	rest, err := d.DeleteRange(start, end)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return rest.Insert(start, text)
	}
	return rest.InsertStyled(start, text, name)
}

// ReplaceWithDocument deletes [start, end) and splices frag in its place.
func (d *Document) ReplaceWithDocument(start, end int, frag *Document) (*Document, error) {
	if err := d.checkRange(start, end); err != nil {
		return nil, err
	}
	rest, err := d.DeleteRange(start, end)
	if err != nil {
		return nil, err
	}
	return rest.InsertDocument(start, frag)
}

// Slice returns the runs covering [start, end) as a new document. Each
// covered run keeps its original style.
func (d *Document) Slice(start, end int) (*Document, error) {
	if err := d.checkRange(start, end); err != nil {
		return nil, err
	}
	_, tail := d.split(start)
	tailDoc := build(d.reg, tail)
	mid, _ := tailDoc.split(end - start)
	return build(d.reg, mid), nil
}

// ExtractRange splits the document into the extracted range and the
// remainder with the range removed.
func (d *Document) ExtractRange(start, end int) (extracted, remaining *Document, err error) {
	extracted, err = d.Slice(start, end)
	if err != nil {
		return nil, nil, err
	}
	remaining, err = d.DeleteRange(start, end)
	if err != nil {
		return nil, nil, err
	}
	return extracted, remaining, nil
}

// Restyle sets the style of every run in [start, end). The empty name
// clears styling.
func (d *Document) Restyle(start, end int, name string) (*Document, error) {
	if err := d.checkRange(start, end); err != nil {
		return nil, err
	}
	if err := d.checkStyle(name); err != nil {
		return nil, err
	}
	mid, err := d.Slice(start, end)
	if err != nil {
		return nil, err
	}
	runs := mid.Runs()
	for i := range runs {
		runs[i].Style = name
	}
	left, _ := d.split(start)
	_, right := d.split(end)
	all := make([]Run, 0, len(left)+len(runs)+len(right))
	all = append(all, left...)
	all = append(all, runs...)
	all = append(all, right...)
	return build(d.reg, all), nil
}

// StyleAt reports the style covering [start, end) and whether it is
// uniform across the range. An empty range reports the style an insertion
// at start would inherit.
func (d *Document) StyleAt(start, end int) (name string, uniform bool, err error) {
	if err := d.checkRange(start, end); err != nil {
		return "", false, err
	}
	if start == end {
		return d.interiorStyle(start), true, nil
	}
	mid, err := d.Slice(start, end)
	if err != nil {
		return "", false, err
	}
	if mid.Len() != 1 {
		return "", false, nil
	}
	return mid.runs[0].Style, true, nil
}
