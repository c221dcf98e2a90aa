package survival

type EndingID string

const (
	EndingFreeze        EndingID = "freeze"
	EndingBankrupt      EndingID = "bankrupt"
	EndingBreakdown     EndingID = "breakdown"
	EndingSpring        EndingID = "spring"
	EndingAnomalia      EndingID = "anomalia"
	EndingBureaucrat    EndingID = "bureaucrat"
	EndingTrialVictory  EndingID = "trial_victory"
	EndingDataExhausted EndingID = "data_exhausted"
)

// Ending is static presentation metadata for a terminal outcome.
type Ending struct {
	ID          EndingID `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Visual      Visual   `json:"visual"`
}

// Visual selects the ending screen treatment.
type Visual string

const (
	VisualFreeze     Visual = "FREEZE"
	VisualBankrupt   Visual = "BANKRUPT"
	VisualBreakdown  Visual = "BREAKDOWN"
	VisualSpring     Visual = "SPRING"
	VisualAnomalia   Visual = "ANOMALIA"
	VisualBureaucrat Visual = "BUREAUCRAT"
)

var Endings = map[EndingID]Ending{
	EndingFreeze: {
		ID:          EndingFreeze,
		Title:       "Jäätyminen",
		Description: "Lämpö laski nollaan ja kylmä otti vallan. Liike pysähtyy valkoiseen.",
		Visual:      VisualFreeze,
	},
	EndingBankrupt: {
		ID:          EndingBankrupt,
		Title:       "Vararikko",
		Description: "Rahasi loppuivat. Valot sammuvat ja ruutu supistuu pisteeseen.",
		Visual:      VisualBankrupt,
	},
	EndingBreakdown: {
		ID:          EndingBreakdown,
		Title:       "Romahdus",
		Description: "Järki murtuu. Paneelit liukuvat irti ja värit kääntyvät nurin.",
		Visual:      VisualBreakdown,
	},
	EndingSpring: {
		ID:          EndingSpring,
		Title:       "Keväänkoitto",
		Description: "Selvisit Lapin talvesta. Ensimmäinen lämmin valo murtaa jään.",
		Visual:      VisualSpring,
	},
	EndingAnomalia: {
		ID:          EndingAnomalia,
		Title:       "Anomalian herääminen",
		Description: "Kaupunki repeää hiljalleen. Ruutu sulaa, lumessa liikkuu jokin ääniisi vastaava.",
		Visual:      VisualAnomalia,
	},
	EndingBureaucrat: {
		ID:          EndingBureaucrat,
		Title:       "Byrokratian kruunu",
		Description: "Selvisit papereiden läpi ja keräsit kaiken. Kela-ninja katoaa arkistojen halki.",
		Visual:      VisualBureaucrat,
	},
	EndingTrialVictory: {
		ID:          EndingTrialVictory,
		Title:       "Koeajo selvitetty",
		Description: "Kolme päivää Lapin anomaliassa ilman romahdusta. Ovi seuraavaan versioon avautuu.",
		Visual:      VisualSpring,
	},
	EndingDataExhausted: {
		ID:          EndingDataExhausted,
		Title:       "Hiljaisuus linjoilla",
		Description: "Tapahtumia ei löytynyt tälle vaiheelle. Palaa päävalikkoon ja aloita uusi peli.",
		Visual:      VisualBreakdown,
	},
}

func ending(id EndingID) *Ending {
	e := Endings[id]
	return &e
}

func lethalEnding(reason SisuReason) *Ending {
	if reason == SisuReasonHeat {
		return ending(EndingFreeze)
	}
	return ending(EndingBreakdown)
}

// CheckEnding returns the ending the state has reached, or nil while the run
// continues. Rules are checked in priority order.
func CheckEnding(s GameState) *Ending {
	r := s.Resources
	sisu := s.Meta.Sisu

	if sisu.Active {
		if sisu.TurnsLeft <= 0 {
			return lethalEnding(sisu.Reason)
		}
		return nil
	}

	if reason, lethal := lethalReason(r); lethal {
		if sisu.Recovered {
			return lethalEnding(reason)
		}
		return nil
	}

	if r.Money <= 0 {
		return ending(EndingBankrupt)
	}

	if s.Flag(FlagAnomalyAwakening) || s.Meta.HighAnomalyDays >= AnomalyStreakDays {
		return ending(EndingAnomalia)
	}

	bureaucrat := s.Paths.Level(PathBureaucrat) >= BureaucratMinLevel ||
		s.Flag(FlagPaperwarSurvivor) || s.Flag(FlagKelaNinja)
	if bureaucrat && r.Money >= BureaucratMinMoney && r.Sanity >= BureaucratMinSanity && r.Anomaly < AnomalyThreshold {
		return ending(EndingBureaucrat)
	}

	if s.Meta.TrialRun && s.Time.Day > TrialVictoryDay &&
		r.Money > 0 && r.Sanity > 0 && r.Heat > 0 && r.Anomaly < AnomalyThreshold {
		return ending(EndingTrialVictory)
	}

	if s.Time.Day > MaxDays+SpringGraceDays {
		return ending(EndingSpring)
	}
	return nil
}

// DataExhausted is the pseudo-ending used when no event can be resolved.
func DataExhausted() *Ending {
	return ending(EndingDataExhausted)
}
