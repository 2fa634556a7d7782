package console

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"
)

const maxReportName = 80

// ReportPath resolves where a report for source goes. A target that is an
// existing directory gets a file named after source; anything else is used as
// given, provided its directory exists.
func ReportPath(target, source string) (string, error) {
	if strings.TrimSpace(target) == "" {
		return "", fmt.Errorf("report path is required")
	}

	info, err := os.Stat(target)
	if err == nil && info.IsDir() {
		return filepath.Join(target, ReportName(source)), nil
	}

	dir := filepath.Dir(target)
	dinfo, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("report directory %s does not exist", dir)
		}
		return "", fmt.Errorf("invalid report directory: %w", err)
	}
	if !dinfo.IsDir() {
		return "", fmt.Errorf("report directory %s is not a directory", dir)
	}
	return target, nil
}

// ReportName derives a file name from a stream URL or a video file name.
func ReportName(source string) string {
	base := source
	if u, err := url.Parse(source); err == nil && u.Host != "" {
		base = u.Host
		if last := path.Base(u.Path); last != "/" && last != "." {
			base += "-" + strings.TrimSuffix(last, path.Ext(last))
		}
	} else {
		base = filepath.Base(source)
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}

	name := sanitizeName(base, maxReportName)
	if name == "" || name == "." {
		name = "clips"
	}
	return name + ".html"
}

func sanitizeName(s string, maxLen int) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsControl(r) {
			continue
		}
		if isAllowedNameRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}

	cleaned := strings.TrimSpace(b.String())
	if maxLen > 0 {
		runes := []rune(cleaned)
		if len(runes) > maxLen {
			cleaned = string(runes[:maxLen])
		}
	}
	return cleaned
}

func isAllowedNameRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case ' ', '-', '_', '.', ',', '(', ')':
		return true
	default:
		return false
	}
}
