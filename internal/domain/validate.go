package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrFarmerNotFound = errors.New("farmer not found")
	ErrInvalidInput   = errors.New("invalid input")
)

const maxCropNameLen = 100

// FarmerInput is the payload a farmer submits over HTTP or MQTT.
// Coordinates are pointers so a missing key is told apart from 0.
type FarmerInput struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	CropName  string   `json:"crop_name"`
}

func NewFarmerInput(lat, lon float64, cropName string) FarmerInput {
	return FarmerInput{Latitude: &lat, Longitude: &lon, CropName: cropName}
}

// Normalize validates the input and returns a copy with the crop name trimmed and title cased.
// On success both coordinates are non-nil.
func (in FarmerInput) Normalize() (FarmerInput, error) {
	if err := checkCoord("latitude", in.Latitude, 90); err != nil {
		return in, err
	}
	if err := checkCoord("longitude", in.Longitude, 180); err != nil {
		return in, err
	}
	name := strings.TrimSpace(in.CropName)
	if n := utf8.RuneCountInString(name); n == 0 || n > maxCropNameLen {
		return in, fmt.Errorf("%w: crop_name must be 1-%d characters", ErrInvalidInput, maxCropNameLen)
	}
	in.CropName = cases.Title(language.Und).String(name)
	return in, nil
}

func checkCoord(name string, v *float64, limit float64) error {
	if v == nil {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, name)
	}
	if math.IsNaN(*v) || *v < -limit || *v > limit {
		return fmt.Errorf("%w: %s %v out of range [%v, %v]", ErrInvalidInput, name, *v, -limit, limit)
	}
	return nil
}

// ValidateMoisture rejects series the decision engine is not defined for.
func ValidateMoisture(samples []MoistureSample) error {
	for i, s := range samples {
		if math.IsNaN(s.MoisturePercentage) || s.MoisturePercentage < 0 || s.MoisturePercentage > 100 {
			return fmt.Errorf("%w: moisture sample %d is %v%%", ErrInvalidInput, i, s.MoisturePercentage)
		}
	}
	return nil
}

func ValidateRainfall(samples []RainfallSample) error {
	for i, s := range samples {
		if math.IsNaN(s.RainfallMM) || s.RainfallMM < 0 {
			return fmt.Errorf("%w: rainfall sample %d is %vmm", ErrInvalidInput, i, s.RainfallMM)
		}
		if math.IsNaN(s.ForecastConfidence) || s.ForecastConfidence < 0 || s.ForecastConfidence > 1 {
			return fmt.Errorf("%w: rainfall sample %d confidence %v", ErrInvalidInput, i, s.ForecastConfidence)
		}
	}
	return nil
}
