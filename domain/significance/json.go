package significance

import (
	"encoding/json"
	"math"
	"strconv"
)

// jsonFloat encodes non-finite values as "NaN", "+Inf" and "-Inf".
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func (f *jsonFloat) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f = jsonFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = jsonFloat(v)
	return nil
}

func (c Comparison) MarshalJSON() ([]byte, error) {
	type plain Comparison
	return json.Marshal(struct {
		plain
		Statistic jsonFloat `json:"statistic"`
		PValue    jsonFloat `json:"p_value"`
	}{plain(c), jsonFloat(c.Statistic), jsonFloat(c.PValue)})
}

func (c *Comparison) UnmarshalJSON(b []byte) error {
	type plain Comparison
	aux := struct {
		*plain
		Statistic jsonFloat `json:"statistic"`
		PValue    jsonFloat `json:"p_value"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	c.Statistic, c.PValue = float64(aux.Statistic), float64(aux.PValue)
	return nil
}

func (o Omnibus) MarshalJSON() ([]byte, error) {
	type plain Omnibus
	return json.Marshal(struct {
		plain
		FStatistic jsonFloat `json:"f_statistic"`
	}{plain(o), jsonFloat(o.FStatistic)})
}

func (o *Omnibus) UnmarshalJSON(b []byte) error {
	type plain Omnibus
	aux := struct {
		*plain
		FStatistic jsonFloat `json:"f_statistic"`
	}{plain: (*plain)(o)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	o.FStatistic = float64(aux.FStatistic)
	return nil
}
