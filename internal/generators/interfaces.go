package generators

import (
	"errors"
	"math/rand"
)

// Ошибки генераторов
var (
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// VitalGenerator - генератор одного жизненного показателя. Значение 0
// трактуется как холодный старт: генератор выдает свежее начальное
// значение вместо возмущения предыдущего.
type VitalGenerator interface {
	// Next возвращает следующее значение показателя по текущему
	Next(current float64) float64
}

// Walk - общий закон ограниченного случайного блуждания: при холодном
// старте равномерная выборка из [min, max], иначе симметричное
// возмущение в [-maxStep/2, +maxStep/2] с ограничением диапазоном.
func Walk(rnd *rand.Rand, min, max, current, maxStep float64) float64 {
	if current == 0 {
		return min + rnd.Float64()*(max-min)
	}
	value := current + rnd.Float64()*maxStep - maxStep/2
	return clamp(value, min, max)
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func validRange(min, max, maxStep float64) bool {
	return min <= max && maxStep >= 0
}
