package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/jhoicas/ferreteria-api/internal/application/ports"
	"github.com/jhoicas/ferreteria-api/pkg/config"
)

// ErrNoAPIKey el proveedor elegido no tiene clave configurada.
var ErrNoAPIKey = fmt.Errorf("%w: API key ausente", ports.ErrCopyWriterUnavailable)

// maxDescriptionRunes tope de la descripción devuelta al panel.
const maxDescriptionRunes = 600

const systemPrompt = `Eres redactor comercial de una ferretería en Venezuela.
Con el nombre, la categoría y las palabras clave de un producto, redacta una descripción de venta
en español neutro, de 2 a 4 oraciones, sin precios, sin emojis y sin inventar medidas que no se den.
Devuelve ÚNICAMENTE un objeto JSON (sin markdown) con esta estructura exacta:
{"description": "<texto>"}`

// descriptionPayload JSON que se espera del modelo.
type descriptionPayload struct {
	Description string `json:"description"`
}

func userPrompt(name, category string, keywords []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Producto: %s\n", name)
	if category != "" {
		fmt.Fprintf(&b, "Categoría: %s\n", category)
	}
	if len(keywords) > 0 {
		fmt.Fprintf(&b, "Palabras clave: %s\n", strings.Join(keywords, ", "))
	}
	return b.String()
}

// jsonBlockRe primer bloque {...} aunque el modelo lo envuelva en texto.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON quita cercas de markdown (```json ... ```) y devuelve el objeto JSON contenido.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}

// parseDescription acepta JSON {"description"} o, si el modelo ignoró el formato, texto plano.
func parseDescription(raw string) (string, error) {
	if js := extractJSON(raw); js != "" {
		var p descriptionPayload
		if err := json.Unmarshal([]byte(js), &p); err == nil && strings.TrimSpace(p.Description) != "" {
			return truncate(strings.TrimSpace(p.Description)), nil
		}
	}
	plain := strings.TrimSpace(raw)
	if plain == "" || strings.HasPrefix(plain, "{") {
		return "", fmt.Errorf("AI: respuesta sin descripción: %q", raw)
	}
	return truncate(plain), nil
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxDescriptionRunes {
		return s
	}
	return strings.TrimSpace(string(r[:maxDescriptionRunes])) + "…"
}

// New elige el adaptador según AI_PROVIDER (gemini por defecto).
func New(cfg config.AIConfig) ports.CopyWriter {
	if strings.EqualFold(cfg.Provider, "anthropic") {
		return NewAnthropicService(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	}
	return NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel)
}
