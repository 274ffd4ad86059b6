package report

import "strings"

const maxSlugLen = 60

// Filename derives the download name from the organisation, or the contact
// when no organisation was given, e.g. "acme-health-savings-report.pdf".
func Filename(company, contact string, kind Kind, ext string) string {
	base := slug(company)
	if base == "" {
		base = slug(contact)
	}
	if base == "" {
		base = strings.ToLower(brand)
	}
	if kind == "" {
		kind = KindSavings
	}
	return base + "-" + string(kind) + "-report" + ext
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
		if b.Len() >= maxSlugLen {
			break
		}
	}
	return strings.Trim(b.String(), "-")
}
