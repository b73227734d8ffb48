package escrow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/0xdevcollins/boundless-backend-sub001/internal/config"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/logger"
	"github.com/cenkalti/backoff/v4"
)

// Gateway 托管网关接口，生命周期引擎依赖该接口而不是具体实现
type Gateway interface {
	DeployEscrow(ctx context.Context, spec *EscrowSpec) (*UnsignedTransaction, error)
	SubmitTransaction(ctx context.Context, signedTx string) (*SubmitResult, error)
	FundEscrow(ctx context.Context, req *FundRequest) (*UnsignedTransaction, error)
}

// Client 托管网关HTTP客户端。网关是外部结算服务，
// 链上副作用与本地持久化不在同一个事务内。
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
}

// NewClient 创建托管网关客户端
func NewClient(cfg config.EscrowConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: cfg.MaxRetries,
	}
}

// DeployEscrow 构建多段释放托管合约的未签名部署交易
func (c *Client) DeployEscrow(ctx context.Context, spec *EscrowSpec) (*UnsignedTransaction, error) {
	var result UnsignedTransaction
	if err := c.post(ctx, "/escrow/deploy", spec, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SubmitTransaction 提交已签名交易。超时视为失败，绝不当作成功入账。
func (c *Client) SubmitTransaction(ctx context.Context, signedTx string) (*SubmitResult, error) {
	req := map[string]string{"signed_tx": signedTx}
	var result SubmitResult
	if err := c.post(ctx, "/transaction/submit", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FundEscrow 构建托管合约的未签名注资交易
func (c *Client) FundEscrow(ctx context.Context, req *FundRequest) (*UnsignedTransaction, error) {
	var result UnsignedTransaction
	if err := c.post(ctx, "/escrow/fund", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// post 发送请求，只对网络错误和5xx做有界重试，业务拒绝（4xx）直接返回
func (c *Client) post(ctx context.Context, path string, body interface{}, result interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	operation := func() error {
		return c.doOnce(ctx, path, payload, result)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)),
		ctx,
	)

	if err := backoff.Retry(operation, policy); err != nil {
		logger.Error("Escrow gateway call %s failed: %v", path, err)
		return err
	}
	return nil
}

// doOnce 单次请求
func (c *Client) doOnce(ctx context.Context, path string, payload []byte, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// 网络错误或超时，可重试
		return fmt.Errorf("escrow gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read escrow gateway response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if result == nil {
			return nil
		}
		if err := json.Unmarshal(data, result); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode escrow gateway response: %w", err))
		}
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// 业务拒绝（例如签名无效），不重试
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(data, apiErr); err != nil {
			apiErr.Message = string(data)
		}
		return backoff.Permanent(apiErr)
	default:
		// 5xx 视为瞬时错误
		return fmt.Errorf("escrow gateway returned status %d", resp.StatusCode)
	}
}
