package survival

const (
	MaxDays         = 30
	SpringGraceDays = 2

	InventoryCapacity = 8
	MaxLogEntries     = 20

	ResourceCeiling = 100

	AnomalyThreshold    = 80
	AnomalyStreakDays   = 3
	BureaucratMinLevel  = 5
	BureaucratMinMoney  = 180
	BureaucratMinSanity = 30
	TrialVictoryDay     = 3

	SisuTurns = 3

	// SaturationLevel blocks using an item whose every positive target is already above it.
	SaturationLevel = 95

	BaseHeatLoss   = -2.0
	BaseEnergyLoss = -1.0

	// ForecastHeatBuffer is added to the heat-loss baseline while forecast_read is set.
	ForecastHeatBuffer = 1.0
	FogSanityLoss      = -0.5
)

var BaseSleepRecovery = Resources{Energy: 10, Heat: 3, Sanity: 1}

type DifficultyTuning struct {
	HeatLossMultiplier   float64
	EnergyLossMultiplier float64
	SleepRecoveryBoost   float64
}

var difficultyTuning = map[Difficulty]DifficultyTuning{
	DifficultyEasy: {
		HeatLossMultiplier:   0.8,
		EnergyLossMultiplier: 0.8,
		SleepRecoveryBoost:   1.15,
	},
	DifficultyNormal: {
		HeatLossMultiplier:   1,
		EnergyLossMultiplier: 1,
		SleepRecoveryBoost:   1,
	},
	DifficultyHard: {
		HeatLossMultiplier:   1.2,
		EnergyLossMultiplier: 1.15,
		SleepRecoveryBoost:   0.95,
	},
}

// TuningFor returns the difficulty table row; unknown difficulties play as NORMAL.
func TuningFor(d Difficulty) DifficultyTuning {
	if t, ok := difficultyTuning[d]; ok {
		return t
	}
	return difficultyTuning[DifficultyNormal]
}

var startingResources = map[Difficulty]Resources{
	DifficultyEasy:   {Money: 110, Sanity: 60, Energy: 55, Heat: 55, Anomaly: 0},
	DifficultyNormal: {Money: 80, Sanity: 50, Energy: 45, Heat: 40, Anomaly: 0},
	DifficultyHard:   {Money: 65, Sanity: 45, Energy: 45, Heat: 35, Anomaly: 0},
}

func StartingResources(d Difficulty) Resources {
	if r, ok := startingResources[d]; ok {
		return r
	}
	return startingResources[DifficultyNormal]
}

type weatherThreshold struct {
	Weather   Weather
	Threshold float64
}

// weatherTable is cumulative: the first row whose threshold exceeds the roll wins.
var weatherTable = []weatherThreshold{
	{Weather: WeatherMild, Threshold: 0.3},
	{Weather: WeatherClear, Threshold: 0.6},
	{Weather: WeatherSnowstorm, Threshold: 0.8},
	{Weather: WeatherFog, Threshold: 1},
}
