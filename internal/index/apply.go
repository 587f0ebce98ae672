package index

import (
	"strconv"
	"strings"

	"github.com/repoforge/repoctl/internal/control"
)

// ApplyPlans rewrites the planned stanzas in place and returns the stanza
// slice. Unplanned stanzas are untouched and stanza order is preserved.
func ApplyPlans(stanzas []string, plans []Plan) []string {
	for _, plan := range plans {
		lines := strings.Split(stanzas[plan.StanzaIndex], "\n")
		for i := range lines {
			lines[i] = strings.TrimRight(lines[i], "\r")
		}

		// Old size and hash lines are replaced wholesale.
		lines = control.RemoveFields(lines, "Size", "MD5sum", "SHA1", "SHA256")

		if plan.FixPackage != "" {
			lines = control.SetField(lines, "Package", plan.FixPackage)
		}
		if plan.FixVersion != "" {
			lines = control.SetField(lines, "Version", plan.FixVersion)
		}
		if plan.FixArchitecture != "" {
			lines = control.SetField(lines, "Architecture", plan.FixArchitecture)
		}
		if plan.FixFilename != "" {
			lines = control.SetField(lines, "Filename", plan.FixFilename)
		}
		if plan.IconRef != "" {
			lines = control.SetField(lines, "Icon", plan.IconRef)
		}

		lines = append(lines,
			"Size: "+strconv.FormatInt(plan.Digest.Size, 10),
			"MD5sum: "+plan.Digest.MD5,
			"SHA1: "+plan.Digest.SHA1,
			"SHA256: "+plan.Digest.SHA256,
		)

		stanzas[plan.StanzaIndex] = strings.Join(lines, control.EOL)
	}

	return stanzas
}
