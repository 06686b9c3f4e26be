package metric

// Population metrics
const (
	Population        ID = "population"
	PopulationPct     ID = "population_pct"
	Population2010    ID = "population_2010"
	PopulationPct2010 ID = "population_pct_2010"
)

// COVID-19 metrics
const (
	CovidCases  ID = "covid_cases"
	CovidDeaths ID = "covid_deaths"
	CovidHosp   ID = "covid_hosp"

	CovidCasesShare  ID = "covid_cases_share"
	CovidDeathsShare ID = "covid_deaths_share"
	CovidHospShare   ID = "covid_hosp_share"

	CovidCasesShareOfKnown  ID = "covid_cases_share_of_known"
	CovidDeathsShareOfKnown ID = "covid_deaths_share_of_known"
	CovidHospShareOfKnown   ID = "covid_hosp_share_of_known"

	CovidCasesPer100k  ID = "covid_cases_per_100k"
	CovidDeathsPer100k ID = "covid_deaths_per_100k"
	CovidHospPer100k   ID = "covid_hosp_per_100k"

	CovidCasesReportingPopulation  ID = "covid_cases_reporting_population"
	CovidDeathsReportingPopulation ID = "covid_deaths_reporting_population"
	CovidHospReportingPopulation   ID = "covid_hosp_reporting_population"

	CovidCasesReportingPopulationPct  ID = "covid_cases_reporting_population_pct"
	CovidDeathsReportingPopulationPct ID = "covid_deaths_reporting_population_pct"
	CovidHospReportingPopulationPct   ID = "covid_hosp_reporting_population_pct"

	CovidDeathsAgeAdjustedRatio ID = "covid_deaths_age_adjusted_ratio"
	CovidHospAgeAdjustedRatio   ID = "covid_hosp_age_adjusted_ratio"
)

// Chronic disease survey metrics
const (
	DiabetesCount      ID = "diabetes_count"
	DiabetesPer100k    ID = "diabetes_per_100k"
	DiabetesPctShare   ID = "diabetes_pct_share"
	CopdCount          ID = "copd_count"
	CopdPer100k        ID = "copd_per_100k"
	CopdPctShare       ID = "copd_pct_share"
	BrfssPopulationPct ID = "brfss_population_pct"
)

// Vaccination metrics
const (
	VaccinatedPctShare     ID = "vaccinated_pct_share"
	VaccinatedShareOfKnown ID = "vaccinated_share_of_known"
	VaccinatedPer100k      ID = "vaccinated_per_100k"
	VaccinePopulationPct   ID = "vaccine_population_pct"
)

func init() {
	register(&Config{ID: Population, DisplayName: "Population", Type: TypePopulation})
	register(&Config{ID: PopulationPct, DisplayName: "Population share", Type: TypePopulationPct})
	register(&Config{ID: Population2010, DisplayName: "Population (2010)", Type: TypePopulation})
	register(&Config{ID: PopulationPct2010, DisplayName: "Population share (2010)", Type: TypePopulationPct})

	registerCovid("covid_cases", "COVID-19 cases", CovidCases, CovidCasesPer100k, CovidCasesShare,
		CovidCasesShareOfKnown, CovidCasesReportingPopulation, CovidCasesReportingPopulationPct, "")
	registerCovid("covid_deaths", "COVID-19 deaths", CovidDeaths, CovidDeathsPer100k, CovidDeathsShare,
		CovidDeathsShareOfKnown, CovidDeathsReportingPopulation, CovidDeathsReportingPopulationPct, CovidDeathsAgeAdjustedRatio)
	registerCovid("covid_hospitalizations", "COVID-19 hospitalizations", CovidHosp, CovidHospPer100k, CovidHospShare,
		CovidHospShareOfKnown, CovidHospReportingPopulation, CovidHospReportingPopulationPct, CovidHospAgeAdjustedRatio)

	brfssPop := register(&Config{ID: BrfssPopulationPct, DisplayName: "Population share", Type: TypePopulationPct})
	registerSurvey("diabetes", "Diabetes", DiabetesCount, DiabetesPer100k, DiabetesPctShare, brfssPop)
	registerSurvey("copd", "COPD", CopdCount, CopdPer100k, CopdPctShare, brfssPop)

	vaxPop := register(&Config{ID: VaccinePopulationPct, DisplayName: "Population share", Type: TypePopulationPct})
	vaxShare := register(&Config{ID: VaccinatedPctShare, DisplayName: "Share of first vaccinations", Type: TypePctShare, PopulationComparisonMetric: vaxPop})
	variables["vaccinations"] = &VariableConfig{
		VariableID:  "vaccinations",
		DisplayName: "COVID-19 vaccinations",
		Metrics: map[Type]*Config{
			TypePer100k:         register(&Config{ID: VaccinatedPer100k, DisplayName: "First vaccinations per 100k", Type: TypePer100k}),
			TypePctShare:        vaxShare,
			TypePctShareOfKnown: register(&Config{ID: VaccinatedShareOfKnown, DisplayName: "Share of first vaccinations with known demographic", Type: TypePctShareOfKnown, PopulationComparisonMetric: vaxPop}),
			TypePopulationPct:   vaxPop,
		},
	}
}

func registerCovid(variableID, name string, count, per100k, share, shareOfKnown, reportingPop, reportingPopPct, ageAdjusted ID) {
	popPct := register(&Config{ID: reportingPopPct, DisplayName: "Population share", Type: TypePopulationPct})
	register(&Config{ID: reportingPop, DisplayName: "Reporting population", Type: TypePopulation})

	v := &VariableConfig{
		VariableID:  variableID,
		DisplayName: name,
		Metrics: map[Type]*Config{
			TypeCount:           register(&Config{ID: count, DisplayName: name, Type: TypeCount}),
			TypePer100k:         register(&Config{ID: per100k, DisplayName: name + " per 100k", Type: TypePer100k}),
			TypePctShare:        register(&Config{ID: share, DisplayName: "Share of " + name, Type: TypePctShare, PopulationComparisonMetric: popPct}),
			TypePctShareOfKnown: register(&Config{ID: shareOfKnown, DisplayName: "Share of " + name + " with known demographic", Type: TypePctShareOfKnown, PopulationComparisonMetric: popPct}),
			TypePopulationPct:   popPct,
		},
	}
	if ageAdjusted != "" {
		v.Metrics[TypeAgeAdjustedRatio] = register(&Config{ID: ageAdjusted, DisplayName: "Age-adjusted " + name + " ratio compared to White (Non-Hispanic)", Type: TypeAgeAdjustedRatio})
	}
	variables[variableID] = v
}

func registerSurvey(variableID, name string, count, per100k, share ID, popPct *Config) {
	variables[variableID] = &VariableConfig{
		VariableID:  variableID,
		DisplayName: name,
		Metrics: map[Type]*Config{
			TypeCount:         register(&Config{ID: count, DisplayName: name + " cases", Type: TypeCount}),
			TypePer100k:       register(&Config{ID: per100k, DisplayName: name + " cases per 100k", Type: TypePer100k}),
			TypePctShare:      register(&Config{ID: share, DisplayName: "Share of " + name + " cases", Type: TypePctShare, PopulationComparisonMetric: popPct}),
			TypePopulationPct: popPct,
		},
	}
}
