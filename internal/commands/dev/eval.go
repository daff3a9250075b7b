package dev

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/PancyStudios/MaBotGo/pkg/utils"
	"github.com/bwmarrin/discordgo"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

const (
	evalTimeout   = 30 * time.Second
	exportsPath   = "github.com/PancyStudios/MaBotGo/internal/commands/dev"
	maxResultSize = 1900
)

func createEvalCommand() *discord.Command {
	return discord.NewCommand(
		"eval",
		"Evalúa código Go y muestra estructuras internas (Peligroso)",
		"dev",
		evalHandler,
	).WithExec(evalTextHandler).
		WithUsage("eval <código>").
		WithOptions(&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "codigo",
			Description: "Código o expresión Go a evaluar",
			Required:    true,
		}).AsDev()
}

// cleanCode strips a markdown code block around the source
func cleanCode(code string) string {
	code = strings.TrimSpace(code)
	code = strings.TrimPrefix(code, "```go")
	code = strings.TrimPrefix(code, "```")
	code = strings.TrimSuffix(code, "```")
	return strings.TrimSpace(code)
}

// evaluate runs code in a fresh interpreter. exports are dot-imported so
// the snippet can use them by name.
func evaluate(ctx context.Context, code string, exports map[string]reflect.Value) (string, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return "", fmt.Errorf("cargando stdlib: %w", err)
	}

	if len(exports) > 0 {
		if err := i.Use(interp.Exports{exportsPath + "/dev": exports}); err != nil {
			return "", fmt.Errorf("registrando variables: %w", err)
		}
		if _, err := i.Eval(`import . "` + exportsPath + `"`); err != nil {
			return "", fmt.Errorf("importando variables: %w", err)
		}
	}

	res, err := i.EvalWithContext(ctx, cleanCode(code))
	if err != nil {
		return "", err
	}
	if !res.IsValid() {
		return "nil", nil
	}
	return fmt.Sprintf("%#v", res.Interface()), nil
}

func evalOutput(result string, err error) string {
	if err != nil {
		return fmt.Sprintf("❌ **Error de Ejecución:**\n```go\n%v\n```", err)
	}
	if len(result) > maxResultSize {
		result = utils.Truncate(result, maxResultSize) + " (truncado)"
	}
	return fmt.Sprintf("✅ **Resultado:**\n```go\n%s\n```", result)
}

func runEval(client *discord.ExtendedClient, session *discordgo.Session, self any, code string) string {
	exports := map[string]reflect.Value{
		"Ctx":     reflect.ValueOf(self),
		"Bot":     reflect.ValueOf(client),
		"Session": reflect.ValueOf(session),
		"DB":      reflect.ValueOf(client.Database),
		"Config":  reflect.ValueOf(client.Config),
	}

	start := time.Now()
	c, cancel := context.WithTimeout(context.Background(), evalTimeout)
	defer cancel()
	res, err := evaluate(c, code, exports)
	logger.Debug(fmt.Sprintf("Eval completado en %s", time.Since(start)), "DevEval")
	return evalOutput(res, err)
}

func evalHandler(ctx *discord.CommandContext) error {
	if err := ctx.Defer(); err != nil {
		return err
	}
	return ctx.EditReply(runEval(ctx.Client, ctx.Session, ctx, ctx.GetStringOption("codigo")))
}

func evalTextHandler(ctx *discord.MessageContext) error {
	if len(ctx.Args) == 0 {
		return ctx.Reply(fmt.Sprintf("Debes escribir el código.\n`Intenta: %seval <código>`", ctx.Prefix))
	}
	return ctx.Reply(runEval(ctx.Client, ctx.Session, ctx, ctx.Rest(0)))
}
