package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSteps(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  Step
	}{
		{"push", "push", Step{Kind: StepPush, Token: "push"}},
		{"build", "build:all", Step{Kind: StepBuild, Name: "all", Token: "build:all"}},
		{"build item", "build:posts", Step{Kind: StepBuild, Name: "posts", Token: "build:posts"}},
		{"remote", "remote:migrate", Step{Kind: StepRemote, Name: "migrate", Token: "remote:migrate"}},
		{"post", "post:purge", Step{Kind: StepPost, Name: "purge", Token: "post:purge"}},
		{"unknown verb", "frobnicate", Step{Kind: StepUnknown, Token: "frobnicate"}},
		{"bare build", "build", Step{Kind: StepUnknown, Token: "build"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSteps([]string{tt.token})
			assert.Equal(t, []Step{tt.want}, got)
		})
	}
}

func TestParseStepsOrder(t *testing.T) {
	steps := ParseSteps([]string{"build:all", "push", "remote:migrate"})
	assert.Len(t, steps, 3)
	assert.Equal(t, StepBuild, steps[0].Kind)
	assert.Equal(t, StepPush, steps[1].Kind)
	assert.Equal(t, StepRemote, steps[2].Kind)
}
