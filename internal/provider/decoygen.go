package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"github.com/geoguard/platform/internal/domain"
	"github.com/geoguard/platform/internal/guard"
	"google.golang.org/genai"
)

const circuitKey = "gemini"

// GeminiDecoyClient generates decoy coordinates with the Gemini API. The
// response is constrained to a fixed JSON schema; a result further from the
// objective than the requested radius is re-clamped onto it, since the model
// is only asked, not forced, to stay inside.
type GeminiDecoyClient struct {
	client  *genai.Client
	model   string
	breaker *guard.CircuitBreaker
	logger  *slog.Logger
}

// NewGeminiDecoyClient creates a Gemini-backed decoy generator.
func NewGeminiDecoyClient(ctx context.Context, apiKey, model string, breaker *guard.CircuitBreaker, logger *slog.Logger) (*GeminiDecoyClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiDecoyClient{
		client:  client,
		model:   model,
		breaker: breaker,
		logger:  logger,
	}, nil
}

// decoyResponseSchema constrains the model output to the final wire shape.
var decoyResponseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"decoyLatitude":  {Type: genai.TypeNumber, Description: "Latitude of the generated decoy coordinate."},
		"decoyLongitude": {Type: genai.TypeNumber, Description: "Longitude of the generated decoy coordinate."},
	},
	Required: []string{"decoyLatitude", "decoyLongitude"},
}

// GenerateDecoy requests one plausible decoy coordinate near the objective.
// One attempt, no retry; the failure propagates to the operation runner.
func (c *GeminiDecoyClient) GenerateDecoy(ctx context.Context, req domain.DecoyRequest) (*domain.DecoyPoint, error) {
	if err := domain.ValidateDecoyRequest(req); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	if result := c.breaker.Check(ctx, circuitKey); !result.Allowed {
		return nil, fmt.Errorf("generator unavailable: %s", result.Reason)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(decoyPrompt(req)),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   decoyResponseSchema,
		},
	)
	if err != nil {
		c.breaker.RecordFailure(circuitKey)
		return nil, fmt.Errorf("generate content: %w", err)
	}

	point, err := parseDecoyResponse(resp.Text())
	if err != nil {
		c.breaker.RecordFailure(circuitKey)
		return nil, err
	}
	c.breaker.RecordSuccess(circuitKey)

	clampDecoyToRadius(req, point)
	return point, nil
}

// decoyPrompt renders the generation instruction for one objective.
func decoyPrompt(req domain.DecoyRequest) string {
	return fmt.Sprintf(`You are a military strategist tasked with generating realistic decoy coordinates to divert enemy attention.

Given an actual military objective with the following characteristics:
- Latitude: %g
- Longitude: %g
- Terrain Type: %s
- Proximity to Populated Areas: %s
- Known Enemy Patrol Routes: %s

Generate a decoy coordinate within a radius of %g kilometers that would plausibly attract enemy attention, effectively diverting resources and misdirecting their strategic focus. The offset from the objective must stay within fractions of a degree; never return an unrelated point.

Consider factors such as:
- Terrain: the decoy should be placed in terrain that is accessible and strategically relevant.
- Proximity to populated areas: close enough to seem like a potential target, not so close that it implies immediate civilian exposure.
- Enemy patrol routes: along or near known routes to increase the likelihood of detection.

Output only the latitude and longitude of the decoy.`,
		req.Latitude, req.Longitude,
		req.TerrainType, req.ProximityToPopulatedAreas, req.KnownEnemyPatrolRoutes,
		req.RadiusKm)
}

// parseDecoyResponse decodes and sanity-checks the schema-constrained payload.
func parseDecoyResponse(body string) (*domain.DecoyPoint, error) {
	var point domain.DecoyPoint
	if err := json.Unmarshal([]byte(body), &point); err != nil {
		return nil, fmt.Errorf("decode decoy response: %w", err)
	}
	if err := domain.ValidatePosition(point.DecoyLatitude, point.DecoyLongitude); err != nil {
		return nil, fmt.Errorf("decoy response: %w", err)
	}
	return &point, nil
}

// clampDecoyToRadius pulls a result that overshot the requested radius back
// onto it along the same bearing. The small margin absorbs the error of the
// linear scaling at these distances.
func clampDecoyToRadius(req domain.DecoyRequest, point *domain.DecoyPoint) {
	dist := haversineKm(req.Latitude, req.Longitude, point.DecoyLatitude, point.DecoyLongitude)
	if dist <= req.RadiusKm {
		return
	}
	factor := req.RadiusKm / dist * 0.995
	point.DecoyLatitude = req.Latitude + (point.DecoyLatitude-req.Latitude)*factor
	point.DecoyLongitude = req.Longitude + (point.DecoyLongitude-req.Longitude)*factor
}

const earthRadiusKm = 6371.0

// haversineKm returns the great-circle distance between two points.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
