package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/0xdevcollins/boundless-backend-sub001/internal/config"
)

// GatewayClient 通知网关HTTP客户端
type GatewayClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewGatewayClient 创建通知网关客户端
func NewGatewayClient(cfg config.NotifyConfig) *GatewayClient {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GatewayClient{
		baseURL: cfg.GatewayURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// sendRequest 通知网关请求体
type sendRequest struct {
	Recipient  string            `json:"recipient"`
	TemplateId string            `json:"template_id"`
	Variables  map[string]string `json:"variables"`
}

// Send 发送一条模板通知
func (c *GatewayClient) Send(recipient, templateId string, variables map[string]string) error {
	payload, err := json.Marshal(sendRequest{
		Recipient:  recipient,
		TemplateId: templateId,
		Variables:  variables,
	})
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	resp, err := c.httpClient.Post(c.baseURL+"/send", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("notification gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification gateway returned status %d", resp.StatusCode)
	}
	return nil
}
