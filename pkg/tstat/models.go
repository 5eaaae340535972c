package tstat

var (
	thermostatModes = map[string]string{"0": "Off", "1": "Heat", "2": "Cool", "3": "Auto"}
	fanModes        = map[string]string{"0": "Auto", "1": "Auto/Circulate", "2": "On"}
	enabled         = map[string]string{"0": "Disabled", "1": "Enabled"}
	thermostatState = map[string]string{"0": "Off", "1": "Heat", "2": "Cool"}
	fanState        = map[string]string{"0": "Off", "1": "On"}
	weekDays        = map[string]string{"0": "Monday", "1": "Tuesday", "2": "Wednesday", "3": "Thursday", "4": "Friday", "5": "Saturday", "6": "Sunday"}
	errStatus       = map[string]string{"0": "OK"}
)

// bootstrapRegistry holds the only key needed to detect a thermostat's model.
var bootstrapRegistry = Registry{
	"model": {Getters: []Getter{{Endpoint: "/tstat/model", Path: "model"}}},
}

// common holds the keys supported by all known models.
var common = bootstrapRegistry.With(Registry{
	"temp": {Getters: []Getter{{"/tstat", "temp"}, {"/tstat/temp", "temp"}}},
	"tmode": {
		Getters: []Getter{{"/tstat", "tmode"}, {"/tstat/tmode", "tmode"}},
		Values:  thermostatModes,
	},
	"fmode": {
		Getters: []Getter{{"/tstat", "fmode"}, {"/tstat/fmode", "fmode"}},
		Values:  fanModes,
	},
	"override": {
		Getters: []Getter{{"/tstat", "override"}, {"/tstat/override", "override"}},
		Values:  enabled,
	},
	"hold": {
		Getters: []Getter{{"/tstat", "hold"}, {"/tstat/hold", "hold"}},
		Values:  enabled,
	},
	"t_heat": {Getters: []Getter{{"/tstat", "t_heat"}, {"/tstat/ttemp", "t_heat"}}},
	"t_cool": {Getters: []Getter{{"/tstat", "t_cool"}, {"/tstat/ttemp", "t_cool"}}},
	"tstate": {
		Getters: []Getter{{"/tstat", "tstate"}},
		Values:  thermostatState,
	},
	"fstate": {
		Getters: []Getter{{"/tstat", "fstate"}},
		Values:  fanState,
	},
	"day": {
		Getters: []Getter{{"/tstat", "time/day"}},
		Values:  weekDays,
	},
	"hour":   {Getters: []Getter{{"/tstat", "time/hour"}}},
	"minute": {Getters: []Getter{{"/tstat", "time/minute"}}},
	"errstatus": {
		Getters: []Getter{{"/tstat/errstatus", "errstatus"}},
		Values:  errStatus,
	},
	"today_heat_runtime":     {Getters: []Getter{{"/tstat/datalog", "today/heat_runtime"}}},
	"today_cool_runtime":     {Getters: []Getter{{"/tstat/datalog", "today/cool_runtime"}}},
	"yesterday_heat_runtime": {Getters: []Getter{{"/tstat/datalog", "yesterday/heat_runtime"}}},
	"yesterday_cool_runtime": {Getters: []Getter{{"/tstat/datalog", "yesterday/cool_runtime"}}},
})

// ct80 adds the humidity sensor and power reporting of the CT80.
var ct80 = common.With(Registry{
	"humidity": {Getters: []Getter{{"/tstat/humidity", "humidity"}}},
	"power":    {Getters: []Getter{{"/tstat/power", "power"}}},
})

// Models holds the Registry for each supported model, keyed by the model string reported at /tstat/model.
var Models = map[string]Registry{
	"CT30 V1.75":        common,
	"CT30 V1.92":        common,
	"CT30 V1.94":        common,
	"CT30 V1.99":        common,
	"CT50 V1.09":        common,
	"CT50 V1.88":        common,
	"CT50 V1.92":        common,
	"CT50 V1.94":        common,
	"3M50 V1.92":        common,
	"CT80 Rev B1 V1.00": ct80,
	"CT80 Rev B2 V1.00": ct80,
	"CT80 Rev B2 V1.03": ct80,
}

// ModelRegistry returns the Registry for the model.
func ModelRegistry(model string) (Registry, bool) {
	r, ok := Models[model]
	return r, ok
}
