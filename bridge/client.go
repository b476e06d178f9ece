package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	bridgeerrors "github.com/ClipFinance/btc-bridge/common/errors"
	"github.com/ClipFinance/btc-bridge/common/types"
)

const (
	// createTxPath is the bridge endpoint creating a cross-chain transaction.
	createTxPath = "createTx2"
	// maxResponseSize bounds the bridge reply read into memory.
	maxResponseSize = 1 << 20
)

// RequestRecorder receives the outcome of every bridge call.
type RequestRecorder interface {
	RecordBridgeRequest(status string, duration time.Duration)
}

// Client calls the remote bridge service. It does not retry and sets no timeout of its own.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *logrus.Logger

	recorderMutex sync.RWMutex
	recorder      RequestRecorder
}

// NewClient creates a bridge service client.
//
// Parameters:
// - baseURL: the bridge API base, e.g. https://bridge-api.wanchain.org/api/testnet.
// - httpClient: the HTTP client to use, http.DefaultClient when nil.
// - logger: the logger for logging events.
//
// Returns:
// - *Client: the client.
// - error: an error if baseURL cannot be parsed.
func NewClient(baseURL string, httpClient *http.Client, logger *logrus.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse bridge url")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("bridge url %q must be absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    u,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// SetRecorder attaches a bridge request recorder.
func (c *Client) SetRecorder(recorder RequestRecorder) {
	c.recorderMutex.Lock()
	defer c.recorderMutex.Unlock()
	c.recorder = recorder
}

func (c *Client) record(status string, started time.Time) {
	c.recorderMutex.RLock()
	recorder := c.recorder
	c.recorderMutex.RUnlock()

	if recorder != nil {
		recorder.RecordBridgeRequest(status, time.Since(started))
	}
}

// endpoint returns the createTx2 URL for the source chain.
func (c *Client) endpoint(fromChain string) string {
	u := c.baseURL.JoinPath(createTxPath)
	q := u.Query()
	q.Set("fromChain", fromChain)
	u.RawQuery = q.Encode()
	return u.String()
}

// CreateTx submits a transfer request and returns the reply body unchanged.
//
// Parameters:
// - ctx: the context for managing the request.
// - req: the transfer request.
//
// Returns:
// - []byte: the raw reply.
// - error: RemoteUnavailable on transport failures and non-2xx replies.
func (c *Client) CreateTx(ctx context.Context, req *types.TransferRequest) ([]byte, error) {
	started := time.Now()
	body, err := json.Marshal(req.Payload())
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode bridge payload")
	}

	endpoint := c.endpoint(req.Constants.FromChain.String())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create bridge request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	logger := c.logger.WithField("endpoint", endpoint).WithField("toAccount", req.ToAccount).WithField("amount", req.Amount)
	logger.Debug("Sending bridge request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.record("error", started)
		logger.WithError(err).Error("Bridge request failed")
		return nil, bridgeerrors.Wrap(bridgeerrors.KindRemoteUnavailable, err, bridgeerrors.ErrRemoteUnavailable.Message)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		c.record("error", started)
		return nil, bridgeerrors.Wrap(bridgeerrors.KindRemoteUnavailable, err, bridgeerrors.ErrRemoteUnavailable.Message)
	}

	status := strconv.Itoa(resp.StatusCode)
	c.record(status, started)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		logger.WithField("status", resp.StatusCode).WithField("body", string(raw)).Error("Bridge service returned an error")
		return nil, bridgeerrors.Wrap(bridgeerrors.KindRemoteUnavailable,
			errors.Errorf("bridge service returned status %d", resp.StatusCode),
			bridgeerrors.ErrRemoteUnavailable.Message)
	}

	logger.WithField("status", resp.StatusCode).Info("Bridge transaction created")
	return raw, nil
}
