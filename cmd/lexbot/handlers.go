package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"lexbot/internal/dispatch"
	"lexbot/internal/intent"
	"lexbot/internal/store"
	"lexbot/internal/summarize"
)

// newHandlers binds every catalogue intent to the case repository and
// the summarization delegate. sum may be nil; summaries then degrade to
// an explanatory reply.
func newHandlers(st *store.Store, sum summarize.Summarizer) map[string]dispatch.Handler {
	return map[string]dispatch.Handler{
		"saludo": func(context.Context, intent.SlotSet) (dispatch.Result, error) {
			return dispatch.Result{Message: "¡Hola! Soy lexbot, el asistente del estudio."}, nil
		},

		"agendar_audiencia": func(ctx context.Context, slots intent.SlotSet) (dispatch.Result, error) {
			h, err := st.ScheduleHearing(ctx, store.Hearing{
				Expediente: slotText(slots, "numero_expediente"),
				Fecha:      slotText(slots, "fecha"),
				Hora:       slotText(slots, "hora"),
			})
			if err != nil {
				return dispatch.Result{}, err
			}

			msg := fmt.Sprintf("Audiencia agendada para el %s", h.Fecha)
			if h.Hora != "" {
				msg += " a las " + h.Hora
			}
			msg += "."
			var lines []string
			if h.Expediente != "" {
				lines = append(lines, "Expediente: "+h.Expediente)
			}
			return dispatch.Result{Message: msg, Lines: lines}, nil
		},

		"crear_caso": func(ctx context.Context, slots intent.SlotSet) (dispatch.Result, error) {
			c, err := st.CreateCase(ctx, store.Case{
				Cliente: slotText(slots, "nombre_cliente"),
				Materia: slotText(slots, "materia"),
			})
			if err != nil {
				return dispatch.Result{}, err
			}
			return dispatch.Result{
				Message: fmt.Sprintf("Caso creado para %s con el expediente %s.", c.Cliente, c.Expediente),
			}, nil
		},

		"actualizar_caso": func(ctx context.Context, slots intent.SlotSet) (dispatch.Result, error) {
			exp := slotText(slots, "numero_expediente")
			c, err := st.UpdateCase(ctx, exp,
				slotText(slots, "estado"), slotText(slots, "nota"))
			if errors.Is(err, store.ErrNotFound) {
				return dispatch.Result{
					Message: fmt.Sprintf("No encontré el expediente %s.", exp),
				}, nil
			}
			if err != nil {
				return dispatch.Result{}, err
			}
			return dispatch.Result{
				Message: fmt.Sprintf("Expediente %s actualizado. Estado: %s.", c.Expediente, c.Estado),
			}, nil
		},

		"consultar_caso": func(ctx context.Context, slots intent.SlotSet) (dispatch.Result, error) {
			exp := slotText(slots, "numero_expediente")
			c, err := st.GetCase(ctx, exp)
			if errors.Is(err, store.ErrNotFound) {
				return dispatch.Result{
					Message: fmt.Sprintf("No encontré el expediente %s.", exp),
				}, nil
			}
			if err != nil {
				return dispatch.Result{}, err
			}

			lines := []string{fmt.Sprintf("Cliente: %s. Estado: %s.", c.Cliente, c.Estado)}
			if c.Materia != "" {
				lines = append(lines, "Materia: "+c.Materia+".")
			}
			if len(c.Notas) > 0 {
				lines = append(lines, "Última nota: "+c.Notas[len(c.Notas)-1])
			}
			return dispatch.Result{
				Message: "Expediente " + c.Expediente + ":",
				Lines:   lines,
			}, nil
		},

		"listar_audiencias": func(ctx context.Context, slots intent.SlotSet) (dispatch.Result, error) {
			fecha := slotText(slots, "fecha")
			hs, err := st.ListHearings(ctx, fecha)
			if err != nil {
				return dispatch.Result{}, err
			}
			if len(hs) == 0 {
				if fecha != "" {
					return dispatch.Result{Message: "No hay audiencias para el " + fecha + "."}, nil
				}
				return dispatch.Result{Message: "No hay audiencias agendadas."}, nil
			}

			msg := fmt.Sprintf("Hay %d audiencia(s):", len(hs))
			shown := hs
			if len(shown) > 3 {
				shown = shown[:2]
			}
			var lines []string
			for _, h := range shown {
				l := h.Fecha
				if h.Hora != "" {
					l += " " + h.Hora
				}
				if h.Expediente != "" {
					l += " (exp. " + h.Expediente + ")"
				}
				lines = append(lines, l)
			}
			if len(hs) > 3 {
				lines = append(lines, fmt.Sprintf("... y %d más.", len(hs)-2))
			}
			return dispatch.Result{Message: msg, Lines: lines}, nil
		},

		"resumir_documento": func(ctx context.Context, slots intent.SlotSet) (dispatch.Result, error) {
			name := slotText(slots, "nombre_documento")
			if sum == nil {
				return dispatch.Result{
					Message: "Los resúmenes no están disponibles sin una clave de API configurada.",
				}, nil
			}

			data, err := os.ReadFile(name)
			if err != nil {
				return dispatch.Result{
					Message: fmt.Sprintf("No pude leer el documento %s.", name),
				}, nil
			}
			summary, err := sum.Summarize(ctx, name, string(data))
			if err != nil {
				return dispatch.Result{}, err
			}
			return dispatch.Result{Message: "Resumen de " + name + ":", Lines: []string{summary}}, nil
		},
	}
}

func slotText(slots intent.SlotSet, name string) string {
	v, ok := slots[name]
	if !ok {
		return ""
	}
	return v.Display()
}
