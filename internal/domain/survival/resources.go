package survival

// Clamp floors money at 0 and keeps the other resources within [0, 100].
func (r *Resources) Clamp() {
	r.Money = clamp(r.Money, 0, -1)
	r.Sanity = clamp(r.Sanity, 0, ResourceCeiling)
	r.Energy = clamp(r.Energy, 0, ResourceCeiling)
	r.Heat = clamp(r.Heat, 0, ResourceCeiling)
	r.Anomaly = clamp(r.Anomaly, 0, ResourceCeiling)
}

// clamp bounds v to [min, max]; a negative max means no ceiling.
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if max >= 0 && v > max {
		return max
	}
	return v
}

// Get returns the value for a resource key; unknown keys read as 0.
func (r Resources) Get(key Resource) float64 {
	switch key {
	case ResourceMoney:
		return r.Money
	case ResourceSanity:
		return r.Sanity
	case ResourceEnergy:
		return r.Energy
	case ResourceHeat:
		return r.Heat
	case ResourceAnomaly:
		return r.Anomaly
	default:
		return 0
	}
}

func (r *Resources) add(key Resource, v float64) {
	switch key {
	case ResourceMoney:
		r.Money += v
	case ResourceSanity:
		r.Sanity += v
	case ResourceEnergy:
		r.Energy += v
	case ResourceHeat:
		r.Heat += v
	case ResourceAnomaly:
		r.Anomaly += v
	}
}

// Apply sums every delta into the resources and clamps the result.
func (r *Resources) Apply(d Delta) {
	for key, v := range d {
		r.add(key, v)
	}
	r.Clamp()
}

// Lethal reports whether heat or sanity has reached zero.
func (r Resources) Lethal() bool {
	return r.Heat <= 0 || r.Sanity <= 0
}

func (d Delta) Clone() Delta {
	if d == nil {
		return nil
	}
	out := make(Delta, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Merge returns the key-wise sum of both deltas.
func (d Delta) Merge(other Delta) Delta {
	out := d.Clone()
	if out == nil {
		out = Delta{}
	}
	for k, v := range other {
		out[k] += v
	}
	return out
}
