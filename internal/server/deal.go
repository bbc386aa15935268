package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "hudgen/internal/common/errors"
	"hudgen/internal/eligibility"
	"hudgen/internal/hud"
	"hudgen/internal/money"
	"hudgen/internal/reference"
	"hudgen/internal/render"
)

// insuranceStatusColumns are tried in order against the matched insurance
// row. Extract layouts differ between servicers.
var insuranceStatusColumns = []string{
	"primary_status",
	"policy_status",
	"insurance_status",
	"status",
}

// statusEnumColumns carry the servicer's coarse loan-status code when the
// insurance extract includes one; the store's status text is the fallback.
var statusEnumColumns = []string{
	"status_enum",
	"loan_status_enum",
	"loan_status",
}

var installmentColumns = []string{
	"inst_1_payment_status",
	"inst_2_payment_status",
	"inst_3_payment_status",
}

type resolveRequest struct {
	Identifier string `json:"identifier"`
}

type resolveResponse struct {
	DealNumber string             `json:"deal_number"`
	Borrower   string             `json:"borrower"`
	Address    string             `json:"address"`
	Checklist  eligibility.Result `json:"checklist"`
	Snapshot   *Snapshot          `json:"snapshot"`
}

func (s *Server) handleResolve(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	if sess.Insurance == nil || sess.Payments == nil {
		return s.fail(c, apperrors.New(apperrors.ErrCodeFilesNotLoaded,
			"upload the insurance and payment extracts before resolving a deal"))
	}

	var req resolveRequest
	if err := c.Bind(&req); err != nil {
		return s.fail(c, apperrors.New(apperrors.ErrCodeInvalidInput, "malformed request body"))
	}
	if req.Identifier == "" {
		return s.fail(c, apperrors.New(apperrors.ErrCodeInvalidInput, "identifier is required"))
	}

	bundle, err := s.resolver.Resolve(c.Request().Context(), req.Identifier)
	if err != nil {
		return s.fail(c, err)
	}

	insuranceRow, insuranceFound := s.matcher.Insurance(
		sess.Insurance.Table, s.cfg.Reference.InsuranceKeyColumn, bundle.ServicerKey())
	insuranceStatus := bundle.InsuranceStatus()
	statusEnum := bundle.ServicerStatus()
	if insuranceFound {
		if col := sess.Insurance.Table.FirstPresentColumn(insuranceStatusColumns); col != "" {
			if v := insuranceRow.Get(col); v != "" {
				insuranceStatus = v
			}
		}
		if col := sess.Insurance.Table.FirstPresentColumn(statusEnumColumns); col != "" {
			if v := insuranceRow.Get(col); v != "" {
				statusEnum = v
			}
		}
	}

	paymentMatch, paymentFound := s.matcher.Payment(
		sess.Payments.Table, bundle.DealNumber, bundle.Address())

	checklist := s.checker.Evaluate(eligibility.Input{
		InsuranceRowFound: insuranceFound,
		InsuranceStatus:   insuranceStatus,
		LateFees:          bundle.LateFees(),
		ServicerStatus:    bundle.ServicerStatus(),
		ServicerKey:       bundle.ServicerKey(),
		NextPaymentDue:    bundle.NextPaymentDue(),
	})

	snapshot := &Snapshot{
		DealNumber:         bundle.DealNumber,
		ServicerID:         bundle.ServicerKey(),
		PrimaryStatus:      insuranceStatus,
		StatusEnum:         statusEnum,
		NextPaymentDue:     bundle.NextPaymentDue(),
		AccruedLateCharges: money.Format(bundle.LateFees()),
	}
	if paymentFound {
		snapshot.PaymentMatchMethod = paymentMatch.Method
		snapshot.InstallmentStatus = installmentStatuses(sess.Payments.Table, paymentMatch.Row)
	}

	sess.Bundle = bundle
	sess.Checklist = &checklist
	sess.Snapshot = snapshot
	sess.Context = nil // a new deal invalidates any previewed statement

	return c.JSON(http.StatusOK, resolveResponse{
		DealNumber: bundle.DealNumber,
		Borrower:   bundle.BorrowerName(),
		Address:    bundle.Address(),
		Checklist:  checklist,
		Snapshot:   snapshot,
	})
}

// installmentStatuses collects the best-effort installment columns from the
// matched payment row. Missing columns are simply absent.
func installmentStatuses(table *reference.Table, row reference.Row) map[string]string {
	out := map[string]string{}
	for _, col := range installmentColumns {
		if !table.HasColumn(col) {
			continue
		}
		if v := row.Get(col); v != "" {
			out[col] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

type statementResponse struct {
	Statement *hud.Context       `json:"statement"`
	Checklist eligibility.Result `json:"checklist"`
}

func (s *Server) handleGenerate(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	if sess.Bundle == nil || sess.Checklist == nil {
		return s.fail(c, apperrors.New(apperrors.ErrCodeInvalidInput, "resolve a deal before generating"))
	}
	if !sess.Checklist.Eligible {
		return c.JSON(http.StatusConflict, map[string]interface{}{
			"code":      "NOT_ELIGIBLE",
			"message":   "a blocking eligibility check failed; the statement cannot be generated",
			"checklist": sess.Checklist,
		})
	}

	body, err := readBody(c)
	if err != nil {
		return s.fail(c, err)
	}
	in, err := validateGenerateRequest(body)
	if err != nil {
		return s.fail(c, err)
	}

	sess.Context = hud.Build(sess.Bundle, in)
	return c.JSON(http.StatusOK, statementResponse{Statement: sess.Context, Checklist: *sess.Checklist})
}

func (s *Server) handleEdit(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	if sess.Context == nil {
		return s.fail(c, apperrors.New(apperrors.ErrCodeInvalidInput, "generate a statement before editing"))
	}

	var edits hud.Edits
	if err := c.Bind(&edits); err != nil {
		return s.fail(c, apperrors.New(apperrors.ErrCodeInvalidInput, "malformed request body"))
	}
	sess.Context.ApplyEdits(edits)
	return c.JSON(http.StatusOK, statementResponse{Statement: sess.Context, Checklist: *sess.Checklist})
}

func (s *Server) handleGetStatement(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	if sess.Context == nil {
		return s.fail(c, apperrors.New(apperrors.ErrCodeInvalidInput, "no statement has been generated"))
	}
	return c.JSON(http.StatusOK, statementResponse{Statement: sess.Context, Checklist: *sess.Checklist})
}

func (s *Server) handleDownloadHTML(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	if sess.Context == nil {
		return s.fail(c, apperrors.New(apperrors.ErrCodeInvalidInput, "no statement has been generated"))
	}

	doc, err := s.renderer.HTML(sess.Context)
	if err != nil {
		return s.fail(c, apperrors.Wrap(apperrors.ErrCodeRenderFailed, "render html statement", err))
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="`+render.Filename(sess.Context.DealNumber, "html")+`"`)
	return c.HTML(http.StatusOK, doc)
}

func (s *Server) handleDownloadXLSX(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	if sess.Context == nil {
		return s.fail(c, apperrors.New(apperrors.ErrCodeInvalidInput, "no statement has been generated"))
	}

	raw, err := s.renderer.Workbook(sess.Context)
	if err != nil {
		return s.fail(c, apperrors.Wrap(apperrors.ErrCodeRenderFailed, "render xlsx statement", err))
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="`+render.Filename(sess.Context.DealNumber, "xlsx")+`"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", raw)
}
