package risk

// Static advisory and educational tables keyed by hazard type. The strings
// must be reproduced verbatim: already-stored records and the mobile clients
// compare against them. Lookups are total, with explicit fallbacks for
// unrecognized or empty types.

const (
	classifyFallback = "Análise em processamento"
	educateFallback  = "Obrigado por contribuir com a segurança da sua comunidade!"
)

var classifications = map[string]string{
	"Construção civil":   "Possível estrutura metálica próxima a cabos",
	"Máquinas agrícolas": "Veículo alto detectado próximo a rede",
	"Poda":               "Vegetação próxima a rede elétrica",
	"Pipa":               "Objeto voador detectado",
	"Cabo no solo":       "Cabo energizado detectado",
	"Poste danificado":   "Estrutura danificada detectada",
	"Veículos altos":     "Veículo alto em movimento",
	"Outro":              "Situação de risco identificada",
}

var educationalMessages = map[string]string{
	"Construção civil":   "Em obras, mantenha andaimes, guindastes e vergalhões a pelo menos 3 metros da rede elétrica.",
	"Máquinas agrícolas": "Ao operar máquinas altas, sempre verifique a altura da rede elétrica. Mantenha distância segura.",
	"Poda":               "Nunca realize podas próximas à rede. Solicite poda técnica à concessionária.",
	"Pipa":               "Evite empinar pipas próximo à rede elétrica. Use linhas sem material condutor.",
	"Cabo no solo":       "Nunca toque em cabos caídos. Isole a área e acione imediatamente a concessionária.",
	"Poste danificado":   "Postes danificados devem ser reportados imediatamente à concessionária para manutenção.",
	"Veículos altos":     "Veículos com caçamba ou equipamentos elevados devem sempre verificar altura antes de passar sob a rede.",
	"Outro":              "Mantenha sempre distância segura da rede elétrica. Em caso de dúvida, consulte a concessionária.",
}

// Classify returns the advisory classification text for a hazard type.
func Classify(hazardType string) string {
	if c, ok := classifications[hazardType]; ok {
		return c
	}
	return classifyFallback
}

// Educate returns the educational message shown to the submitter.
func Educate(hazardType string) string {
	if m, ok := educationalMessages[hazardType]; ok {
		return m
	}
	return educateFallback
}
