package domain

import (
	"fmt"
	"math"
	"regexp"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._\-]{2,64}$`)

// ValidateUsername checks a login/account name.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("invalid username format")
	}
	return nil
}

// ValidatePassword checks minimum credential strength for stored accounts.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

// ValidateTargetStatus checks a target lifecycle status value.
func ValidateTargetStatus(s TargetStatus) error {
	switch s {
	case TargetPending, TargetActive, TargetPassive:
		return nil
	}
	return fmt.Errorf("invalid target status: %q", s)
}

// ValidateUnitStatus checks a unit status value.
func ValidateUnitStatus(s UnitStatus) error {
	switch s {
	case UnitOperating, UnitOffline, UnitAlert:
		return nil
	}
	return fmt.Errorf("invalid unit status: %q", s)
}

// ValidatePosition checks that a coordinate pair is finite and within the
// valid latitude/longitude ranges.
func ValidatePosition(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) {
		return fmt.Errorf("latitude must be finite")
	}
	if math.IsNaN(lng) || math.IsInf(lng, 0) {
		return fmt.Errorf("longitude must be finite")
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateDecoyRequest checks the generator input: all fields required,
// numerics finite, radius strictly positive.
func ValidateDecoyRequest(req DecoyRequest) error {
	if err := ValidatePosition(req.Latitude, req.Longitude); err != nil {
		return err
	}
	if req.TerrainType == "" {
		return fmt.Errorf("terrainType is required")
	}
	if req.ProximityToPopulatedAreas == "" {
		return fmt.Errorf("proximityToPopulatedAreas is required")
	}
	if req.KnownEnemyPatrolRoutes == "" {
		return fmt.Errorf("knownEnemyPatrolRoutes is required")
	}
	if math.IsNaN(req.RadiusKm) || math.IsInf(req.RadiusKm, 0) || req.RadiusKm <= 0 {
		return fmt.Errorf("radiusKm must be a positive finite number")
	}
	return nil
}
