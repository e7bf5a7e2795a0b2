package util

import (
	"os"
	"strings"
)

const EnvironmentPrefix = "STOPMONITOR_"

func GetEnvironmentVariables() map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		pair := strings.SplitN(variable, "=", 2)

		if strings.HasPrefix(pair[0], EnvironmentPrefix) {
			environmentVariables[pair[0]] = pair[1]
		}
	}

	return environmentVariables
}
