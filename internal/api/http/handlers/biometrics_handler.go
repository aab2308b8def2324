package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/workout-platform/internal/api/dto"
	"github.com/spec-kit/workout-platform/internal/service"
	apperrors "github.com/spec-kit/workout-platform/pkg/util"
)

// BiometricsHandler exposes body measurement endpoints.
type BiometricsHandler struct {
	biometrics *service.BiometricService
}

// NewBiometricsHandler constructs handler.
func NewBiometricsHandler(biometrics *service.BiometricService) *BiometricsHandler {
	return &BiometricsHandler{biometrics: biometrics}
}

// Create handles POST /biometrics.
func (h *BiometricsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateBiometricRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" {
		return apperrors.NewValidationError("username required", nil)
	}

	record, err := h.biometrics.Create(c.UserContext(), req.Username, service.BiometricCreateInput{
		WeightKg:     req.WeightKg,
		HeightM:      req.HeightM,
		BodyFatPct:   req.BodyFatPct,
		MuscleMassKg: req.MuscleMassKg,
		SystolicBP:   req.SystolicBP,
		DiastolicBP:  req.DiastolicBP,
		HeartRate:    req.HeartRate,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.FromBiometric(record))
}

// ListByUsername handles GET /biometrics/by-username/:username.
func (h *BiometricsHandler) ListByUsername(c *fiber.Ctx) error {
	records, err := h.biometrics.ListByUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromBiometrics(records))
}

// Update handles PATCH /biometrics/:id.
func (h *BiometricsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateBiometricRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	record, err := h.biometrics.Update(c.UserContext(), c.Params("id"), service.BiometricUpdateInput{
		WeightKg:     req.WeightKg,
		HeightM:      req.HeightM,
		BodyFatPct:   req.BodyFatPct,
		MuscleMassKg: req.MuscleMassKg,
		SystolicBP:   req.SystolicBP,
		DiastolicBP:  req.DiastolicBP,
		HeartRate:    req.HeartRate,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.FromBiometric(record))
}

// Delete handles DELETE /biometrics/:id.
func (h *BiometricsHandler) Delete(c *fiber.Ctx) error {
	if err := h.biometrics.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
