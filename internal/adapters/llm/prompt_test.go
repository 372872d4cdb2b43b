package llm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PabloGalante/lumen-console/internal/adapters/llm"
	"github.com/PabloGalante/lumen-console/internal/domain"
)

func TestBuildSystemInstruction(t *testing.T) {
	req := domain.GenerateRequest{
		Persona: domain.Persona{
			ID:                "aether",
			Name:              "Aether",
			Tone:              "calm",
			SystemInstruction: "You are Aether.",
		},
		Connectors: []domain.ConnectorRef{
			{Name: "Calendar", Status: domain.ConnectorActive, Capabilities: []string{"read", "write"}},
			{Name: "Mail", Status: domain.ConnectorPaused, Capabilities: []string{"send"}},
		},
		Design: domain.DesignProfile{
			Accent:     "#6c8cff",
			Background: "#10131a",
			Density:    "comfortable",
		},
	}

	instruction := llm.BuildSystemInstruction(req)

	assert.Contains(t, instruction, "You are Aether.")
	assert.Contains(t, instruction, "calm tone")
	assert.Contains(t, instruction, "Calendar · read, write")
	assert.NotContains(t, instruction, "Mail", "paused connectors stay out of the instruction")
	assert.Contains(t, instruction, "#6c8cff")
}

func TestBuildSystemInstructionWithoutInstructionFallsBackToName(t *testing.T) {
	req := domain.GenerateRequest{
		Persona: domain.Persona{ID: "ember", Name: "Ember"},
	}

	instruction := llm.BuildSystemInstruction(req)
	assert.Contains(t, instruction, `"Ember"`)
}
