package dev

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanCode(t *testing.T) {
	assert.Equal(t, "1 + 2", cleanCode("```go\n1 + 2\n```"))
	assert.Equal(t, "x", cleanCode("```x```"))
	assert.Equal(t, "len(\"ab\")", cleanCode("  len(\"ab\") "))
}

func TestEvaluate(t *testing.T) {
	res, err := evaluate(context.Background(), "```go\n1 + 2\n```", nil)
	require.NoError(t, err)
	assert.Equal(t, "3", res)

	res, err = evaluate(context.Background(), `import "strings"; strings.ToUpper("ma")`, nil)
	require.NoError(t, err)
	assert.Equal(t, `"MA"`, res)
}

func TestEvaluateExports(t *testing.T) {
	exports := map[string]reflect.Value{"Answer": reflect.ValueOf(42)}
	res, err := evaluate(context.Background(), "Answer * 2", exports)
	require.NoError(t, err)
	assert.Equal(t, "84", res)
}

func TestEvaluateError(t *testing.T) {
	_, err := evaluate(context.Background(), "undefinedName", nil)
	assert.Error(t, err)
}

func TestEvalOutput(t *testing.T) {
	assert.True(t, strings.HasPrefix(evalOutput("3", nil), "✅ **Resultado:**"))
	assert.Contains(t, evalOutput(strings.Repeat("a", 3000), nil), "(truncado)")
	assert.Contains(t, evalOutput("", assert.AnError), "❌ **Error de Ejecución:**")
}

func TestRegisterDevCommands(t *testing.T) {
	b := discord.NewBuilder()
	RegisterDevCommands(b)
	reg, err := b.Build()
	require.NoError(t, err)

	cmd, ok := reg.Lookup("eval")
	require.True(t, ok)
	assert.True(t, cmd.IsDev)

	global, dev := reg.ApplicationCommands()
	assert.Empty(t, global)
	assert.Len(t, dev, 1)
}
