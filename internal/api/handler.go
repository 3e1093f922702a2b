package api

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/insightdelivered/poi-coverage-report/internal/aggregate"
	"github.com/insightdelivered/poi-coverage-report/internal/config"
	"github.com/insightdelivered/poi-coverage-report/internal/models"
	"github.com/insightdelivered/poi-coverage-report/internal/parser"
	"github.com/insightdelivered/poi-coverage-report/internal/store"
	"github.com/insightdelivered/poi-coverage-report/internal/writer"
)

// ReportResponse is the JSON response of the report endpoints.
type ReportResponse struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Report  *models.Summary `json:"report,omitempty"`
	Version string          `json:"version,omitempty"`
}

// ZonesResponse lists the zones of the current report.
type ZonesResponse struct {
	Success bool     `json:"success"`
	ID      string   `json:"id"`
	Zones   []string `json:"zones"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Store   *store.Store
	Config  *config.Config
	Logger  *zap.Logger
	Version string // reported by the health and report endpoints
	now     func() time.Time
}

// NewHandler returns a handler serving reports from st.
func NewHandler(st *store.Store, cfg *config.Config, logger *zap.Logger, version string) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Store: st, Config: cfg, Logger: logger, Version: version, now: time.Now}
}

// NewApp returns a fiber app with middleware and all routes registered.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "poi-report",
		BodyLimit:             h.Config.Server.BodyLimitMB << 20,
		UnescapePath:          true,
		DisableStartupMessage: true,
		ErrorHandler:          h.handleError,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "POST, GET, OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	app.Use(h.logRequest)
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")
	api.Get("/health", h.HandleHealth)
	api.Post("/report", h.HandleUpload)
	api.Get("/report", h.HandleReport)
	api.Get("/report.csv", h.HandleCSV)
	api.Get("/report.xlsx", h.HandleXLSX)
	api.Get("/zones", h.HandleZones)
	api.Get("/zones/:zone/chart.png", h.HandleChart)
	api.Get("/zones/:zone/print", h.HandlePrint)

	// ?zone= forms; an empty selection gets the "select a zone" error
	api.Get("/chart", h.HandleChart)
	api.Get("/print", h.HandlePrint)

	// Serve the browser page; unknown non-API paths fall back to index.html.
	if dir := h.Config.Server.StaticDir; dir != "" {
		app.Static("/", dir)
		app.Get("/*", func(c *fiber.Ctx) error {
			path := c.Path()
			if strings.HasPrefix(path, "/api/") {
				return fiber.ErrNotFound
			}
			if _, err := os.Stat(filepath.Join(dir, filepath.Clean(path))); os.IsNotExist(err) {
				return c.SendFile(filepath.Join(dir, "index.html"))
			}
			return c.Next()
		})
	}
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": h.Version,
	})
}

// HandleUpload builds a report from the uploaded CSV in form field "file" and
// makes it the current one.
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		return writeError(c, fiber.StatusBadRequest, "Only CSV files are supported.")
	}

	file, err := header.Open()
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to read uploaded file.")
	}
	defer file.Close()

	res, err := h.Store.Load(header.Filename, file)
	if err != nil {
		if errors.Is(err, parser.ErrNoHeader) {
			return writeError(c, fiber.StatusUnprocessableEntity, "The CSV file is empty.")
		}
		return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("Processing failed: %v", err))
	}

	return c.JSON(ReportResponse{
		Success: true,
		Report:  aggregate.Summarize(res, h.Config.Report.RankingSize),
		Version: h.Version,
	})
}

// HandleReport returns the current report.
func (h *Handler) HandleReport(c *fiber.Ctx) error {
	res, err := h.Store.Last()
	if err != nil {
		return err
	}
	return c.JSON(ReportResponse{
		Success: true,
		Report:  aggregate.Summarize(res, h.Config.Report.RankingSize),
		Version: h.Version,
	})
}

// HandleCSV exports the current report. ?level=ward exports the ward table and
// ?header=false drops the metadata rows.
func (h *Handler) HandleCSV(c *fiber.Ctx) error {
	res, err := h.Store.Last()
	if err != nil {
		return err
	}
	sum := aggregate.Summarize(res, h.Config.Report.RankingSize)

	var buf bytes.Buffer
	w := &writer.CSVWriter{IncludeHeader: c.Query("header") != "false"}
	name := "poi-zone-report.csv"
	if c.Query("level") == "ward" {
		name = "poi-ward-report.csv"
		err = w.WriteWards(&buf, sum)
	} else {
		err = w.Write(&buf, sum)
	}
	if err != nil {
		return fmt.Errorf("CSV generation failed: %w", err)
	}

	c.Attachment(name)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}

// HandleXLSX exports the current report as a workbook.
func (h *Handler) HandleXLSX(c *fiber.Ctx) error {
	res, err := h.Store.Last()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := writer.WriteXLSX(&buf, aggregate.Summarize(res, h.Config.Report.RankingSize)); err != nil {
		return fmt.Errorf("XLSX generation failed: %w", err)
	}

	c.Attachment("poi-report.xlsx")
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(buf.Bytes())
}

// HandleZones lists the zones available for printing.
func (h *Handler) HandleZones(c *fiber.Ctx) error {
	res, err := h.Store.Last()
	if err != nil {
		return err
	}
	return c.JSON(ZonesResponse{Success: true, ID: res.ID, Zones: res.ZoneNames()})
}

// HandleChart renders the chart of the selected zone as PNG.
func (h *Handler) HandleChart(c *fiber.Ctx) error {
	_, zone, err := h.Store.Zone(zoneParam(c))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := writer.WriteChartPNG(&buf, aggregate.PieFor(zone), h.chartSize()); err != nil {
		return fmt.Errorf("chart generation failed: %w", err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(buf.Bytes())
}

// HandlePrint renders the printable report of the selected zone.
func (h *Handler) HandlePrint(c *fiber.Ctx) error {
	_, zone, err := h.Store.Zone(zoneParam(c))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := writer.RenderZoneReport(&buf, h.Config.Report.Title, zone, h.chartSize(), h.now(), h.Logger); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}

// zoneParam reads the zone from the :zone path segment, else from ?zone=.
func zoneParam(c *fiber.Ctx) string {
	return strings.TrimSpace(c.Params("zone", c.Query("zone")))
}

func (h *Handler) chartSize() writer.ChartSize {
	return writer.ChartSize{Width: h.Config.Report.ChartWidth, Height: h.Config.Report.ChartHeight}
}

// handleError maps store and fiber errors onto JSON error responses.
func (h *Handler) handleError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := err.Error()

	var fe *fiber.Error
	switch {
	case errors.Is(err, store.ErrNoZoneSelected):
		status, msg = fiber.StatusBadRequest, "Please select a zone to print"
	case errors.Is(err, store.ErrNoBuild):
		status, msg = fiber.StatusNotFound, "No report loaded. Upload a CSV file first."
	case errors.Is(err, store.ErrUnknownZone):
		status = fiber.StatusNotFound
	case errors.As(err, &fe):
		status = fe.Code
	}

	if status >= fiber.StatusInternalServerError {
		h.Logger.Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return writeError(c, status, msg)
}

func (h *Handler) logRequest(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	h.Logger.Debug("Request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err))
	return err
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ReportResponse{
		Success: false,
		Error:   msg,
	})
}
