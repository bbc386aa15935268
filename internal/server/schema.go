package server

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/xeipuuv/gojsonschema"

	apperrors "hudgen/internal/common/errors"
	"hudgen/internal/hud"
)

// generateSchema validates the statement form before any arithmetic runs.
// Amounts stay strings here: normalization (symbols, commas, parentheses)
// happens downstream and never rejects, so the schema only checks shape.
// advance_amount and advance_date must be present but may be blank, in
// which case the deal's most recent advance record supplies them.
var generateSchema = map[string]interface{}{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []interface{}{"advance_amount", "advance_date"},
	"properties": map[string]interface{}{
		"advance_amount":        map[string]interface{}{"type": "string"},
		"holdback_current":      map[string]interface{}{"type": "string"},
		"holdback_closing":      map[string]interface{}{"type": "string"},
		"advance_date":          map[string]interface{}{"type": "string"},
		"inspection_fee":        map[string]interface{}{"type": "string"},
		"wire_fee":              map[string]interface{}{"type": "string"},
		"construction_mgmt_fee": map[string]interface{}{"type": "string"},
		"title_fee":             map[string]interface{}{"type": "string"},
		"include_late_charges":  map[string]interface{}{"type": "boolean"},
	},
}

func readBody(c echo.Context) (map[string]interface{}, error) {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, "read request body", err)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "request body must be a JSON object")
	}
	return body, nil
}

func validateGenerateRequest(body map[string]interface{}) (hud.Inputs, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(generateSchema),
		gojsonschema.NewGoLoader(body),
	)
	if err != nil {
		return hud.Inputs{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, "schema validation", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return hud.Inputs{}, apperrors.New(apperrors.ErrCodeInvalidInput, strings.Join(msgs, "; "))
	}

	str := func(key string) string {
		if v, ok := body[key].(string); ok {
			return v
		}
		return ""
	}
	in := hud.Inputs{
		AdvanceAmount:       str("advance_amount"),
		HoldbackCurrent:     str("holdback_current"),
		HoldbackClosing:     str("holdback_closing"),
		AdvanceDate:         str("advance_date"),
		InspectionFee:       str("inspection_fee"),
		WireFee:             str("wire_fee"),
		ConstructionMgmtFee: str("construction_mgmt_fee"),
		TitleFee:            str("title_fee"),
	}
	if v, ok := body["include_late_charges"].(bool); ok {
		in.IncludeLateCharges = v
	}
	return in, nil
}
