package coach

import (
	"fmt"
	"strings"

	"github.com/fitpantry/coach/internal/domain/nutrition"
	"github.com/fitpantry/coach/internal/domain/pantry"
	"github.com/fitpantry/coach/internal/domain/profile"
	"github.com/fitpantry/coach/internal/domain/session"
	"github.com/fitpantry/coach/internal/domain/shared"
	"github.com/fitpantry/coach/internal/domain/training"
)

const listAnswer = "Devuelve SOLO una lista de nombres genéricos de ingredientes en español, en minúsculas, separados por comas, sin cantidades ni marcas ni texto adicional."

var channelInstructions = map[pantry.Channel]string{
	pantry.ChannelImage:   "Eres un asistente de cocina. Identifica todos los alimentos e ingredientes visibles en esta foto de nevera o despensa. " + listAnswer,
	pantry.ChannelReceipt: "Eres un asistente de compras. Lee este ticket de supermercado e identifica los productos alimenticios comprados, ignorando precios, impuestos y artículos no comestibles. " + listAnswer,
	pantry.ChannelBarcode: "Identifica el producto alimenticio de este código de barras o etiqueta y devuelve su nombre genérico. " + listAnswer,
	pantry.ChannelVoice:   "Transcribe este audio e identifica los ingredientes que la persona dice tener en casa. " + listAnswer,
	pantry.ChannelManual:  "Extrae los alimentos e ingredientes mencionados en este texto escrito por la persona, corrigiendo erratas y usando nombres genéricos. " + listAnswer,
}

const mealShape = `{"type": "Desayuno|Comida|Merienda|Cena|Snack", "dish": "nombre del plato", "ingredients": ["ingrediente"], "instructions": "pasos", "rationale": "motivo nutricional", "kcal": 0, "protein": 0, "carbs": 0, "fat": 0}`

const exerciseShape = `{"name": "ejercicio", "warmup": "series de aproximación", "sets": 3, "reps": "8-10", "rir": "1-2", "tempo": "3-1-1-0", "rest": "90s", "video": "url o búsqueda", "completed_sets": []}`

const bloodWorkInstruction = "Actúa como un endocrinólogo deportivo. Analiza esta analítica de sangre: resume en viñetas los marcadores fuera de rango, su posible impacto en el rendimiento, la composición corporal y la recuperación, y qué ajustes nutricionales conviene aplicar. No diagnostiques enfermedades."

const injuryInstruction = "Actúa como un fisioterapeuta deportivo. Analiza este informe médico o de fisioterapia: resume en viñetas las lesiones o limitaciones, los movimientos y ejercicios que deben evitarse y las alternativas seguras."

func writeProfile(b *strings.Builder, p profile.Profile) {
	fmt.Fprintf(b, "PERFIL:\n")
	fmt.Fprintf(b, "- Sexo: %s, edad: %d, peso: %.1f kg, altura: %.0f cm, actividad: %s\n", p.Sex, p.Age, p.WeightKg, p.HeightCm, p.ActivityLevel)
	if p.Sex == profile.SexFemale && p.HormonalPhase != profile.PhaseNone {
		fmt.Fprintf(b, "- Fase hormonal: %s\n", p.HormonalPhase)
	}
	fmt.Fprintf(b, "- Objetivo: %s, experiencia: %s\n", p.Goal, p.Experience)
	fmt.Fprintf(b, "- Entrena en: %s, horario: %s, días por semana: %d\n", p.TrainingLocation, p.Schedule, p.TrainingDays)
	fmt.Fprintf(b, "- Dieta: %s, comidas al día: %d, ayuno intermitente: %t\n", p.DietType, p.MealsPerDay, p.IntermittentFasting)
	fmt.Fprintf(b, "- Alergias: %s\n- Suplementos: %s\n- Lesiones declaradas: %s\n", orNone(p.Allergies), orNone(p.Supplements), orNone(p.Injuries))
	fmt.Fprintf(b, "- Sueño habitual: %.1f h, estrés basal: %s, despertar: %s, acostarse: %s\n", p.SleepHours, p.StressBaseline, p.WakeTime, p.SleepTime)
	fmt.Fprintf(b, "- Sensibilidad digestiva: %s, tolerancia a cafeína: %s, presupuesto: %s\n", p.DigestiveSensitivity, p.CaffeineTolerance, p.Budget)
	fmt.Fprintf(b, "- Equipamiento: %s, tiempo máximo de cocina: %d min\n", joinOrNone(p.Equipment), p.MaxCookMinutes)
}

func writeMedical(b *strings.Builder, h session.MedicalHistory) {
	if h.Empty() {
		return
	}
	b.WriteString("HISTORIAL MÉDICO:\n")
	if h.BloodAnalysis != "" {
		fmt.Fprintf(b, "- Analítica: %s\n", h.BloodAnalysis)
	}
	if h.Injuries != "" {
		fmt.Fprintf(b, "- Lesiones: %s\n", h.Injuries)
	}
}

// buildPlanPrompt asks for a full week of meals built around the pantry.
func buildPlanPrompt(st *session.State) string {
	var b strings.Builder
	b.WriteString("Eres un nutricionista deportivo. Diseña un plan de comidas semanal personalizado.\n\n")
	writeProfile(&b, st.Profile)
	fmt.Fprintf(&b, "\nINVENTARIO DISPONIBLE: %s\n", joinOrNone(st.Inventory.Items()))
	fmt.Fprintf(&b, "INGREDIENTES QUE LE GUSTAN: %s\n", joinOrNone(st.Profile.LikedIngredients))
	fmt.Fprintf(&b, "INGREDIENTES QUE NO LE GUSTAN (no usar): %s\n", joinOrNone(st.Profile.DislikedIngredients))
	writeMedical(&b, st.MedicalHistory)

	fmt.Fprintf(&b, "\nPrioriza el inventario disponible. Cada día debe tener %d comidas.\n", st.Profile.MealsPerDay)
	fmt.Fprintf(&b, "Devuelve SOLO un objeto JSON cuyas claves sean exactamente %s y cuyos valores sean listas de comidas con esta forma:\n%s\n",
		strings.Join(shared.Weekdays, ", "), mealShape)
	return b.String()
}

// buildMealPrompt asks for one replacement meal in the same slot.
func buildMealPrompt(st *session.State, day string, current nutrition.Meal) string {
	var b strings.Builder
	b.WriteString("Eres un nutricionista deportivo. Propón una comida alternativa.\n\n")
	writeProfile(&b, st.Profile)
	fmt.Fprintf(&b, "\nINVENTARIO DISPONIBLE: %s\n", joinOrNone(st.Inventory.Items()))
	fmt.Fprintf(&b, "INGREDIENTES QUE NO LE GUSTAN (no usar): %s\n", joinOrNone(st.Profile.DislikedIngredients))
	writeMedical(&b, st.MedicalHistory)
	fmt.Fprintf(&b, "\nSustituye el %s del %s (\"%s\") por otro plato distinto del mismo tipo.\n", current.Type, day, current.Dish)
	fmt.Fprintf(&b, "Devuelve SOLO un objeto JSON con esta forma:\n%s\n", mealShape)
	return b.String()
}

// buildWorkoutPrompt asks for a microcycle adapted to readiness and fatigue.
func buildWorkoutPrompt(st *session.State, highEnergy bool) string {
	var b strings.Builder
	b.WriteString("Eres un preparador físico de élite. Diseña un microciclo de entrenamiento semanal.\n\n")
	writeProfile(&b, st.Profile)
	writeMedical(&b, st.MedicalHistory)

	c := st.Calibration
	if c.Completed {
		fmt.Fprintf(&b, "\nCALIBRACIÓN DE HOY: sueño %.1f h, agujetas %d/10, estrés %s\n", c.HoursSlept, c.Soreness, c.Stress)
	}

	b.WriteString("\nFATIGA MUSCULAR (100 = recuperado):\n")
	for _, group := range training.MuscleGroups {
		if v, ok := st.Fatigue[group]; ok {
			fmt.Fprintf(&b, "- %s: %d%%\n", group, v)
		}
	}
	fmt.Fprintf(&b, "No programes trabajo para ningún grupo muscular por debajo del %d%%.", training.AdvisoryThreshold)
	if low := st.Fatigue.Below(training.AdvisoryThreshold); len(low) > 0 {
		fmt.Fprintf(&b, " Ahora mismo: %s.", strings.Join(low, ", "))
	}
	b.WriteString("\n")

	if highEnergy {
		b.WriteString("MODO ALTA ENERGÍA: hoy se siente con energía extra, puedes aumentar el volumen o la intensidad de forma segura.\n")
	}

	fmt.Fprintf(&b, "\nProgramas %d días. Devuelve SOLO un objeto JSON cuyas claves sean días de %s y cuyos valores sean listas de ejercicios con esta forma:\n%s\n",
		st.Profile.TrainingDays, strings.Join(shared.Weekdays, ", "), exerciseShape)
	return b.String()
}

// buildSubstitutePrompt asks for one exercise that replaces another.
func buildSubstitutePrompt(st *session.State, current training.Exercise, reason string) string {
	var b strings.Builder
	b.WriteString("Eres un preparador físico. Sustituye un ejercicio por otro que trabaje el mismo patrón de movimiento.\n\n")
	fmt.Fprintf(&b, "EJERCICIO ACTUAL: %s (%d series de %s)\n", current.Name, current.TargetSets, current.Reps)
	fmt.Fprintf(&b, "MOTIVO: %s\n", orNone(reason))
	fmt.Fprintf(&b, "EQUIPAMIENTO: %s\n", joinOrNone(st.Profile.Equipment))
	writeMedical(&b, st.MedicalHistory)
	fmt.Fprintf(&b, "\nDevuelve SOLO un objeto JSON con esta forma:\n%s\n", exerciseShape)
	return b.String()
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "ninguno"
	}
	return s
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "ninguno"
	}
	return strings.Join(items, ", ")
}
