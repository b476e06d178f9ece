package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	bridgeerrors "github.com/ClipFinance/btc-bridge/common/errors"
	"github.com/ClipFinance/btc-bridge/common/types"
)

type createTransactionPayload struct {
	FromAccount string             `json:"fromAccount"`
	ToAccount   string             `json:"toAccount"`
	Amount      json.RawMessage    `json:"amount"`
}

// requestAmount returns the amount field as text. A JSON number equal to zero
// counts as missing, the same as an absent or empty amount.
func requestAmount(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", nil
	}

	var amount types.AmountString
	if err := json.Unmarshal(raw, &amount); err != nil {
		return "", err
	}
	if raw[0] != '"' {
		if d, err := decimal.NewFromString(amount.String()); err == nil && d.IsZero() {
			return "", nil
		}
	}
	return amount.String(), nil
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func PostCreateTransactionRoute(s *Server) *echo.Route {
	return s.Router.APIBridge.POST("/create-transaction", postCreateTransactionHandler(s))
}

// postCreateTransactionHandler proxies the transfer to the bridge service and
// forwards its reply unchanged.
func postCreateTransactionHandler(s *Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body createTransactionPayload
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		}

		amount, err := requestAmount(body.Amount)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		}

		req, err := s.Requests.Build(body.FromAccount, body.ToAccount, amount)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: bridgeerrors.Message(err)})
		}

		raw, err := s.Bridge.CreateTx(ctx, req)
		if err != nil {
			s.Logger.WithError(err).WithField("toAccount", req.ToAccount).Error("Bridge API error")
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: bridgeerrors.ErrRemoteUnavailable.Message})
		}

		logger := s.Logger.WithField("toAccount", req.ToAccount).WithField("amount", req.Amount)
		if result, err := s.Classifier.Classify(raw); err != nil {
			logger.WithError(err).Warn("Bridge reply could not be classified")
		} else {
			logger.WithField("kind", result.Kind).Info("Bridge transaction created")
		}

		return c.JSONBlob(http.StatusOK, raw)
	}
}
