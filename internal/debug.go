package internal

import (
	"log"
	"os"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"github.com/earthboundkid/versioninfo/v2"
)

func ShowVersion() {
	log.Printf("Version: %s (%s, GOMAXPROCS=%d)", versioninfo.Short(), runtime.Version(), runtime.GOMAXPROCS(0))
}

var sensitiveRegex = regexp.MustCompile(`(?i)(PASSWORD|API_KEY|ACCESS_KEY|SECRET|TOKEN)`)

// EnvironmentVars logs the WARP_ prefixed settings, masking anything that looks secret.
func EnvironmentVars() {
	log.Println("Environment variables")

	environ := os.Environ()
	sort.Strings(environ)

	for _, entry := range environ {
		key, value, _ := strings.Cut(entry, "=")
		if !strings.HasPrefix(key, "WARP_") {
			continue
		}
		log.Printf("  %s: %s", key, maskValue(key, value))
	}
}

func maskValue(key, value string) string {
	if sensitiveRegex.MatchString(key) {
		return "********"
	}
	return value
}
