package param

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FrequencyFormatter formats frequency values with Hz/kHz
func FrequencyFormatter(hz float64) string {
	if hz >= 1000 {
		return fmt.Sprintf("%.2f kHz", hz/1000)
	}
	return fmt.Sprintf("%.1f Hz", hz)
}

// FrequencyParser parses frequency strings
func FrequencyParser(str string) (float64, error) {
	str = strings.TrimSpace(str)

	lower := strings.ToLower(str)
	if strings.HasSuffix(lower, "khz") {
		val, err := strconv.ParseFloat(strings.TrimSpace(str[:len(str)-3]), 64)
		if err != nil {
			return 0, err
		}
		return val * 1000, nil
	}

	if strings.HasSuffix(lower, "hz") {
		str = str[:len(str)-2]
	}
	return strconv.ParseFloat(strings.TrimSpace(str), 64)
}

// DecibelFormatter formats dB values
func DecibelFormatter(db float64) string {
	if db <= -60 {
		return "-∞ dB"
	}
	return fmt.Sprintf("%.1f dB", db)
}

// DecibelParser parses dB strings
func DecibelParser(str string) (float64, error) {
	if strings.Contains(str, "∞") || strings.Contains(strings.ToLower(str), "inf") {
		return math.Inf(-1), nil
	}
	str = strings.TrimSpace(str)
	if strings.HasSuffix(strings.ToLower(str), "db") {
		str = str[:len(str)-2]
	}
	return strconv.ParseFloat(strings.TrimSpace(str), 64)
}

// LinearGainFormatter shows a linear gain factor in dB
func LinearGainFormatter(gain float64) string {
	if gain <= 0 {
		return "-∞ dB"
	}
	return DecibelFormatter(20 * math.Log10(gain))
}

// LinearGainParser parses a dB string into a linear gain factor
func LinearGainParser(str string) (float64, error) {
	db, err := DecibelParser(str)
	if err != nil {
		return 0, err
	}
	if math.IsInf(db, -1) {
		return 0, nil
	}
	return math.Pow(10, db/20), nil
}

// PercentFormatter formats a fraction as a percentage
func PercentFormatter(value float64) string {
	return fmt.Sprintf("%.0f%%", value*100)
}

// PercentParser parses a percentage string into a fraction
func PercentParser(str string) (float64, error) {
	str = strings.TrimSuffix(strings.TrimSpace(str), "%")
	v, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
	if err != nil {
		return 0, err
	}
	return v / 100, nil
}

// SecondsFormatter formats times given in seconds
func SecondsFormatter(s float64) string {
	if s < 1 {
		return fmt.Sprintf("%.0f ms", s*1000)
	}
	return fmt.Sprintf("%.2f s", s)
}

// SecondsParser parses "250 ms" or "1.5 s" into seconds. A bare number is seconds.
func SecondsParser(str string) (float64, error) {
	str = strings.ToLower(strings.TrimSpace(str))

	if strings.HasSuffix(str, "ms") {
		val, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(str, "ms")), 64)
		if err != nil {
			return 0, err
		}
		return val / 1000, nil
	}

	str = strings.TrimSuffix(str, "s")
	return strconv.ParseFloat(strings.TrimSpace(str), 64)
}

// MultiplierFormatter formats a factor as "2.5x"
func MultiplierFormatter(v float64) string {
	return fmt.Sprintf("%.1fx", v)
}

func MultiplierParser(str string) (float64, error) {
	str = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(str)), "x")
	return strconv.ParseFloat(strings.TrimSpace(str), 64)
}
