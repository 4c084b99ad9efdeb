package intent

import "regexp"

// Capture patterns for free-text slots. These run over normalized text,
// so only lowercase letters, digits, and the kept punctuation appear.
var (
	captureCliente = regexp.MustCompile(
		`(?:cliente|a nombre de|para(?: la| el)? ?(?:señora?|sra|sr)?) ([a-zñ]+(?: [a-zñ]+){0,3})`)
	captureMateria   = regexp.MustCompile(`(?:materia|por|sobre) ([a-zñ]+)`)
	captureEstado    = regexp.MustCompile(`estado(?: a| de)? ([a-zñ]+)`)
	captureNota      = regexp.MustCompile(`nota (.+)$`)
	captureDocumento = regexp.MustCompile(`(?:documento|archivo|escrito) ([\w.ñ-]+)`)
)

// Defaults returns the compiled-in intent catalogue of the case office.
// The set is closed; a YAML table may replace weights and phrasing but
// handlers are registered against these names.
func Defaults() []*Definition {
	return []*Definition{
		{
			Name:  "agendar_audiencia",
			Floor: 0.50,
			Slots: []Slot{
				{Name: "fecha", Kind: KindDate, Required: true,
					Question: "¿Para qué fecha desea agendar la audiencia?"},
				{Name: "hora", Kind: KindTime,
					Question: "¿A qué hora?"},
				{Name: "numero_expediente", Kind: KindCaseID,
					Question: "¿Para qué número de expediente?"},
			},
			Triggers: []Trigger{
				{"agenda", 45}, {"agendar", 45}, {"agendame", 45},
				{"programa", 40}, {"programar", 40},
				{"audiencia", 30},
			},
			ContextWords: []string{"cita", "calendario", "juzgado", "sala"},
			Examples: []string{
				"agenda una audiencia",
				"programa la audiencia del caso",
				"agendar audiencia para el expediente",
			},
		},
		{
			Name:  "crear_caso",
			Floor: 0.55,
			Slots: []Slot{
				{Name: "nombre_cliente", Kind: KindText, Required: true,
					Question: "¿A nombre de qué cliente se crea el caso?",
					Capture:  captureCliente},
				{Name: "materia", Kind: KindText,
					Question: "¿Sobre qué materia?",
					Capture:  captureMateria},
			},
			Triggers: []Trigger{
				{"crea", 50}, {"crear", 50}, {"registra", 50}, {"registrar", 50},
				{"dar de alta", 55}, {"abre", 45}, {"abrir", 45},
				{"nuevo caso", 55}, {"nuevo cliente", 45},
			},
			ContextWords: []string{"caso", "cliente", "materia", "expediente"},
			Examples: []string{
				"crea un caso nuevo",
				"registra un caso para el cliente",
				"dar de alta un expediente",
			},
		},
		{
			Name:     "actualizar_caso",
			Floor:    0.55,
			Priority: 1,
			Slots: []Slot{
				{Name: "numero_expediente", Kind: KindCaseID, Required: true,
					Question: "¿Cuál es el número de expediente a actualizar?"},
				{Name: "estado", Kind: KindText,
					Question: "¿A qué estado pasa el caso?",
					Capture:  captureEstado},
				{Name: "nota", Kind: KindText,
					Question: "¿Qué nota desea agregar?",
					Capture:  captureNota},
			},
			Triggers: []Trigger{
				{"actualiza", 50}, {"actualizar", 50},
				{"modifica", 50}, {"modificar", 50},
				{"cambia", 45}, {"cambiar", 45},
				{"agrega nota", 50}, {"anota", 45},
			},
			ContextWords: []string{"caso", "expediente", "estado", "nota"},
			// Update verbs outrank create verbs when both appear in the
			// same utterance ("actualiza y crea...").
			Bonuses: []Bonus{
				{"actualiza", 15}, {"modifica", 15}, {"cambia", 10},
			},
			Examples: []string{
				"actualiza el caso",
				"modifica el estado del expediente",
				"agrega una nota al caso",
			},
		},
		{
			Name:  "consultar_caso",
			Floor: 0.45,
			Slots: []Slot{
				{Name: "numero_expediente", Kind: KindCaseID, Required: true,
					Question: "¿Qué número de expediente desea consultar?"},
			},
			Triggers: []Trigger{
				{"consulta", 45}, {"consultar", 45},
				{"estado del caso", 55}, {"de que trata", 50},
				{"busca", 40}, {"buscar", 40}, {"muestra", 40},
			},
			ContextWords: []string{"expediente", "caso", "informacion"},
			Examples: []string{
				"consulta el expediente",
				"de que trata el caso",
				"muestrame el estado del caso",
			},
		},
		{
			Name:  "listar_audiencias",
			Floor: 0.45,
			Slots: []Slot{
				{Name: "fecha", Kind: KindDate,
					Question: "¿Para qué fecha?"},
			},
			Triggers: []Trigger{
				{"audiencias", 40}, {"que audiencias", 55},
				{"lista", 40}, {"listar", 40},
				{"agenda del dia", 55},
			},
			ContextWords: []string{"pendientes", "proximas", "hoy", "semana"},
			Examples: []string{
				"que audiencias tengo",
				"lista las audiencias de la semana",
				"muestrame la agenda del dia",
			},
		},
		{
			Name:  "resumir_documento",
			Floor: 0.50,
			Slots: []Slot{
				{Name: "nombre_documento", Kind: KindText, Required: true,
					Question: "¿Qué documento desea resumir?",
					Capture:  captureDocumento},
			},
			Triggers: []Trigger{
				{"resume", 50}, {"resumir", 50}, {"resumen", 45},
			},
			ContextWords: []string{"documento", "escrito", "sentencia", "demanda"},
			Examples: []string{
				"resume el documento",
				"hazme un resumen de la sentencia",
			},
		},
		{
			Name:  "saludo",
			Floor: 0.40,
			Triggers: []Trigger{
				{"hola", 45}, {"buenos dias", 50},
				{"buenas tardes", 50}, {"buenas noches", 50},
				{"gracias", 40},
			},
			Examples: []string{
				"hola",
				"buenos dias",
				"muchas gracias",
			},
		},
	}
}
