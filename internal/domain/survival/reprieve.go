package survival

func lethalReason(r Resources) (SisuReason, bool) {
	switch {
	case r.Heat <= 0:
		return SisuReasonHeat, true
	case r.Sanity <= 0:
		return SisuReasonSanity, true
	default:
		return "", false
	}
}

// StepReprieve advances the sisu state machine. The first time heat or sanity
// hits zero the player gets SisuTurns turns to recover; pulling out of it
// marks the reprieve as spent for the rest of the run. spendTurn is true for
// steps that consume a turn (a resolved choice).
func StepReprieve(s GameState, spendTurn bool) GameState {
	reason, lethal := lethalReason(s.Resources)
	sisu := s.Meta.Sisu

	switch {
	case lethal && !sisu.Active && !sisu.Recovered:
		next := s.Clone()
		next.Meta.Sisu = Sisu{Active: true, TurnsLeft: SisuTurns, Reason: reason}
		return next
	case sisu.Active && !lethal:
		next := s.Clone()
		next.Meta.Sisu = Sisu{Recovered: true}
		return next
	case sisu.Active && spendTurn:
		next := s.Clone()
		if next.Meta.Sisu.TurnsLeft > 0 {
			next.Meta.Sisu.TurnsLeft--
		}
		return next
	default:
		return s
	}
}
