package stroke

// Judge runs the full pipeline on one raw gesture: Normalize, Simplify with
// epsilon, then Compare against reference. It returns the verdict together
// with the simplified stroke so callers can render what was judged.
func Judge(
	samples []RawSample,
	width, height float64,
	reference ReferenceStroke,
	epsilon float64,
	profile ToleranceProfile,
) (Verdict, Stroke, error) {
	normalized, err := Normalize(samples, width, height)
	if err != nil {
		return Verdict{}, nil, err
	}

	return JudgeStroke(normalized, reference, epsilon, profile)
}

// JudgeStroke is Judge for a stroke that is already normalized.
func JudgeStroke(
	s Stroke,
	reference ReferenceStroke,
	epsilon float64,
	profile ToleranceProfile,
) (Verdict, Stroke, error) {
	simplified := Simplify(s, epsilon)

	verdict, err := Compare(simplified, reference, profile)
	if err != nil {
		return Verdict{}, nil, err
	}

	return verdict, simplified, nil
}
