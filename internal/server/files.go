package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "hudgen/internal/common/errors"
	"hudgen/internal/reference"
)

// tableHandle pairs a loaded reference table with where it came from, for
// echoing back in upload responses and snapshots.
type tableHandle struct {
	Table    *reference.Table
	Filename string
}

type uploadResponse struct {
	Filename string   `json:"filename"`
	Rows     int      `json:"rows"`
	Columns  []string `json:"columns"`
}

func (s *Server) handleUploadInsurance(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return s.fail(c, apperrors.New(apperrors.ErrCodeInvalidInput, "multipart field 'file' is required"))
	}
	src, err := fh.Open()
	if err != nil {
		return s.fail(c, apperrors.Wrap(apperrors.ErrCodeReferenceLoad, "open upload", err))
	}
	defer src.Close()

	delim := '|'
	if d := []rune(s.cfg.Reference.InsuranceDelimiter); len(d) > 0 {
		delim = d[0]
	}
	table, err := reference.LoadCSV(src, delim)
	if err != nil {
		return s.fail(c, apperrors.Wrap(apperrors.ErrCodeReferenceLoad, "parse insurance extract", err))
	}
	if !table.HasColumn(s.cfg.Reference.InsuranceKeyColumn) {
		return s.fail(c, apperrors.New(apperrors.ErrCodeReferenceLoad,
			"insurance extract is missing the key column "+s.cfg.Reference.InsuranceKeyColumn))
	}

	sess.Insurance = &tableHandle{Table: table, Filename: fh.Filename}
	s.log.Info("insurance extract loaded", map[string]interface{}{
		"session":  sess.ID,
		"filename": fh.Filename,
		"rows":     len(table.Rows),
	})
	return c.JSON(http.StatusOK, uploadResponse{
		Filename: fh.Filename,
		Rows:     len(table.Rows),
		Columns:  table.Columns,
	})
}

func (s *Server) handleUploadPayments(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return s.fail(c, apperrors.New(apperrors.ErrCodeInvalidInput, "multipart field 'file' is required"))
	}
	src, err := fh.Open()
	if err != nil {
		return s.fail(c, apperrors.Wrap(apperrors.ErrCodeReferenceLoad, "open upload", err))
	}
	defer src.Close()

	table, err := reference.LoadWorkbookSheet(src, s.cfg.Reference.PaymentSheet, s.cfg.Reference.PaymentSkipRows)
	if err != nil {
		return s.fail(c, apperrors.Wrap(apperrors.ErrCodeReferenceLoad, "parse payment workbook", err))
	}

	sess.Payments = &tableHandle{Table: table, Filename: fh.Filename}
	s.log.Info("payment extract loaded", map[string]interface{}{
		"session":  sess.ID,
		"filename": fh.Filename,
		"sheet":    s.cfg.Reference.PaymentSheet,
		"rows":     len(table.Rows),
	})
	return c.JSON(http.StatusOK, uploadResponse{
		Filename: fh.Filename,
		Rows:     len(table.Rows),
		Columns:  table.Columns,
	})
}
