package dtoforge

// MapSlice rewrites every element of a slice through f, preserving
// order. A nil input yields a nil output.
func MapSlice[S, D any](in []S, f func(S) D) []D {
	if in == nil {
		return nil
	}
	out := make([]D, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}

// MapSet rewrites every member of a set through f. A nil input yields a
// nil output.
func MapSet[S, D comparable](in map[S]struct{}, f func(S) D) map[D]struct{} {
	if in == nil {
		return nil
	}
	out := make(map[D]struct{}, len(in))
	for v := range in {
		out[f(v)] = struct{}{}
	}
	return out
}

// MapPtr rewrites a present value through f. Absent short-circuits to
// absent without calling f.
func MapPtr[S, D any](in *S, f func(S) D) *D {
	if in == nil {
		return nil
	}
	out := f(*in)
	return &out
}

// MapMap rewrites every entry of a map, keys through kf and values
// through vf. A nil input yields a nil output.
func MapMap[SK comparable, SV any, DK comparable, DV any](in map[SK]SV, kf func(SK) DK, vf func(SV) DV) map[DK]DV {
	if in == nil {
		return nil
	}
	out := make(map[DK]DV, len(in))
	for k, v := range in {
		out[kf(k)] = vf(v)
	}
	return out
}
