package entity

// Уровни удовлетворённости выступлением игрока
const (
	SatisfactionGood    = "good"
	SatisfactionNeutral = "neutral"
	SatisfactionBad     = "bad"
)

// SatisfactionScore переводит качественную оценку в число для усреднения.
// Единственная точка истины для всех пересчётов агрегатов: good=3, neutral=2, bad=1.
// Неизвестное значение дает 0, функция никогда не паникует.
func SatisfactionScore(level string) int {
	switch level {
	case SatisfactionGood:
		return 3
	case SatisfactionNeutral:
		return 2
	case SatisfactionBad:
		return 1
	default:
		return 0
	}
}
