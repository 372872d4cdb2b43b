package llm

import (
	"fmt"
	"strings"

	"github.com/PabloGalante/lumen-console/internal/domain"
)

// BuildSystemInstruction composes the system instruction the upstream model
// receives: persona identity, active connector summaries and the design
// profile as presentation context.
func BuildSystemInstruction(req domain.GenerateRequest) string {
	var b strings.Builder

	if req.Persona.SystemInstruction != "" {
		b.WriteString(req.Persona.SystemInstruction)
	} else {
		fmt.Fprintf(&b, "You are %q, a voice assistant for a browser console.", req.Persona.Name)
	}
	b.WriteString("\n")

	if req.Persona.Tone != "" {
		fmt.Fprintf(&b, "\nKeep a %s tone throughout.\n", req.Persona.Tone)
	}

	if active := domain.ActiveConnectorContext(req.Connectors); len(active) > 0 {
		b.WriteString("\nThe user has these integrations connected; mention them only when relevant:\n")
		for _, line := range active {
			b.WriteString("- " + line + "\n")
		}
	}

	fmt.Fprintf(&b,
		"\nThe console is styled with accent %s on background %s (%s density). "+
			"Do not describe the styling unless asked.\n",
		req.Design.Accent, req.Design.Background, req.Design.Density,
	)

	return b.String()
}
