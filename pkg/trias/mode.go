package trias

// Submode element carried for each PtMode. Modes without an entry have no submode.
var submodeElements = map[string]string{
	"air":           "AirSubmode",
	"bus":           "BusSubmode",
	"trolleyBus":    "BusSubmode",
	"tram":          "TramSubmode",
	"coach":         "CoachSubmode",
	"rail":          "RailSubmode",
	"intercityRail": "RailSubmode",
	"urbanRail":     "RailSubmode",
	"metro":         "MetroSubmode",
	"water":         "WaterSubmode",
	"funicular":     "FunicularSubmode",
}

var submodePaths = map[string]Path{}

func init() {
	for mode, element := range submodeElements {
		submodePaths[mode] = MustCompilePath(".//Service/Mode/" + element)
	}
}

// SubmodeElement returns the name of the submode element used by a PtMode
func SubmodeElement(mode string) (string, bool) {
	element, ok := submodeElements[mode]

	return element, ok
}

func submodePath(mode string) (Path, bool) {
	path, ok := submodePaths[mode]

	return path, ok
}
