package category

import "strconv"

// Option is one choice on the entry pad.
type Option struct {
	Label string `json:"label"`
	Value Cell   `json:"value"`
}

const (
	labelCross = "Tachar"
	labelClear = "Borrar"
)

// Options lists the valid entries for a category:
// upper categories offer face×1..face×5, cross out and clear;
// bonus categories offer the normal award, the served award and cross out.
func Options(k Key) []Option {
	d, ok := Lookup(k)
	if !ok {
		return nil
	}
	if d.Face > 0 {
		opts := make([]Option, 0, 7)
		for n := 1; n <= 5; n++ {
			v := n * d.Face
			opts = append(opts, Option{Label: strconv.Itoa(v), Value: Number(v)})
		}
		return append(opts,
			Option{Label: labelCross, Value: Crossed()},
			Option{Label: labelClear, Value: Unset()},
		)
	}
	a := Awards[k]
	return []Option{
		{Label: strconv.Itoa(a.Normal), Value: Number(a.Normal)},
		{Label: strconv.Itoa(a.Served), Value: Number(a.Served)},
		{Label: labelCross, Value: Crossed()},
	}
}

// Valid reports whether v is one of the entries Options(k) offers.
func Valid(k Key, v Cell) bool {
	for _, o := range Options(k) {
		if o.Value == v {
			return true
		}
	}
	return false
}
