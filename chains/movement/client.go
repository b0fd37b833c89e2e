// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package movement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/api"

	"github.com/sprintertech/atomic-bridge/bridge"
)

const API_PATH = "/v1"

// NodeClient talks to the REST API of a Movement full node. Ledger, account,
// view and transaction requests go through the Aptos SDK node client.
type NodeClient struct {
	node   *aptos.NodeClient
	url    string
	client *http.Client
}

func NewNodeClient(endpoint string, chainID uint8, client *http.Client) (*NodeClient, error) {
	if client == nil {
		client = http.DefaultClient
	}
	base := strings.TrimSuffix(endpoint, "/")
	if !strings.HasSuffix(base, API_PATH) {
		base += API_PATH
	}

	node, err := aptos.NewNodeClientWithHttpClient(base, chainID, client)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bridge.ErrCall, err)
	}
	return &NodeClient{
		node:   node,
		url:    base,
		client: client,
	}, nil
}

func (c *NodeClient) LedgerInfo(ctx context.Context) (*LedgerInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := c.node.Info()
	if err != nil {
		return nil, nodeError(err)
	}
	return &LedgerInfo{
		ChainID:         info.ChainId,
		LedgerVersion:   info.LedgerVersion(),
		LedgerTimestamp: info.LedgerTimestamp(),
		BlockHeight:     info.BlockHeight(),
	}, nil
}

func (c *NodeClient) SequenceNumber(ctx context.Context, address AccountAddress) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	account, err := c.node.Account(address.sdk())
	if err != nil {
		return 0, nodeError(err)
	}
	sequence, err := account.SequenceNumber()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", bridge.ErrSerialization, err)
	}
	return sequence, nil
}

// View calls a view function with BCS encoded arguments and returns its
// JSON decoded return values.
func (c *NodeClient) View(ctx context.Context, payload *aptos.ViewPayload) ([]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	values, err := c.node.View(payload)
	if err != nil {
		return nil, nodeError(err)
	}
	return values, nil
}

// SubmitTransaction submits a signed transaction and returns its hash.
func (c *NodeClient) SubmitTransaction(ctx context.Context, signed *aptos.SignedTransaction) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	pending, err := c.node.SubmitTransaction(signed)
	if err != nil {
		return "", nodeError(err)
	}
	return pending.Hash, nil
}

// TransactionByHash returns nil when the node does not know the transaction.
func (c *NodeClient) TransactionByHash(ctx context.Context, hash string) (*Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tx, err := c.node.TransactionByHash(hash)
	err = nodeError(err)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return convertTransaction(hash, tx)
}

// EventsByHandle pages through the events of an event handle field of a
// resource, starting at sequence number start. Events keep the ledger
// version they were emitted at.
func (c *NodeClient) EventsByHandle(ctx context.Context, address AccountAddress, handle string, field string, start uint64, limit int) ([]Event, error) {
	query := url.Values{}
	query.Set("start", fmt.Sprint(start))
	query.Set("limit", fmt.Sprint(limit))
	path := fmt.Sprintf("/accounts/%s/events/%s/%s?%s", address.Hex(), url.PathEscape(handle), field, query.Encode())

	var events []Event
	err := c.get(ctx, path, &events)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return []Event{}, nil
	}
	if err != nil {
		return nil, err
	}
	return events, nil
}

// EventCount returns the number of events emitted to an event handle field
// of a resource.
func (c *NodeClient) EventCount(ctx context.Context, address AccountAddress, handle string, field string) (uint64, error) {
	var resource struct {
		Data map[string]struct {
			Counter U64 `json:"counter"`
		} `json:"data"`
	}
	path := fmt.Sprintf("/accounts/%s/resource/%s", address.Hex(), url.PathEscape(handle))
	err := c.get(ctx, path, &resource)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return uint64(resource.Data[field].Counter), nil
}

func (c *NodeClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", bridge.ErrCall, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", bridge.ErrCall, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %w", bridge.ErrCall, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return newAPIError(resp.StatusCode, body)
	}

	err = json.Unmarshal(body, out)
	if err != nil {
		return fmt.Errorf("%w: %w", bridge.ErrSerialization, err)
	}
	return nil
}

// nodeError maps SDK HTTP errors to APIError.
func nodeError(err error) error {
	if err == nil {
		return nil
	}
	var httpErr *aptos.HttpError
	if !errors.As(err, &httpErr) {
		return fmt.Errorf("%w: %w", bridge.ErrCall, err)
	}
	return newAPIError(httpErr.StatusCode, httpErr.Body)
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = string(body)
	}
	return apiErr
}

func convertTransaction(hash string, tx *api.Transaction) (*Transaction, error) {
	if tx.Type == api.TransactionVariantPending {
		return &Transaction{Type: PendingTransaction, Hash: hash}, nil
	}

	user, err := tx.UserTransaction()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bridge.ErrSerialization, err)
	}
	events := make([]Event, len(user.Events))
	for i, e := range user.Events {
		data, err := json.Marshal(e.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", bridge.ErrSerialization, err)
		}
		events[i] = Event{
			Version:        U64(user.Version),
			SequenceNumber: U64(e.SequenceNumber),
			Type:           e.Type,
			Data:           data,
		}
	}
	return &Transaction{
		Type:     UserTransaction,
		Hash:     hash,
		Version:  user.Version,
		Success:  user.Success,
		VMStatus: user.VmStatus,
		Events:   events,
	}, nil
}
