package swiggy

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/chrisdamba/foodspend/internal/models"
)

const ordersPath = "/dapi/order/all"

// FetchResult is the order history gathered by FetchOrders.
type FetchResult struct {
	Orders []models.Order
	Pages  int
	// Partial is set when the walk stopped on a failure after at least one
	// page had been collected. StopReason holds that failure.
	Partial    bool
	StopReason error
	// Truncated is set when the page ceiling stopped the walk before the
	// history was known to be complete. With Total 0 the next page may have
	// been empty.
	Truncated bool
	// Total is the order count reported by the platform, 0 when unknown.
	Total int
}

// PageFunc is called after every collected page. total is 0 when the
// platform did not report a total.
type PageFunc func(page, fetched, total int)

type ordersPage struct {
	orders []models.Order
	total  int
}

// FetchOrders walks the order history from the most recent order backwards
// until the platform runs out of orders, the reported total is reached, or
// the page ceiling is hit.
//
// A failure on the first page is returned as a classified *UpstreamError. A
// failure on a later page ends the walk and the orders gathered so far are
// returned with Partial set. An account without orders is a successful result
// with no orders.
func (c *Client) FetchOrders(ctx context.Context, token string, onPage PageFunc) (*FetchResult, error) {
	cookie := FormatCookie(token)
	if cookie == "" {
		return nil, newError(ErrInvalidInput, 0, "session token is required")
	}

	result := &FetchResult{Orders: []models.Order{}}
	lastID := ""
	total := 0
	for {
		if total > 0 && len(result.Orders) >= total {
			break
		}
		if result.Pages >= c.maxPages {
			result.Truncated = true
			c.logger.WithFields(logrus.Fields{
				"max_pages": c.maxPages,
				"total":     total,
			}).Warn("page ceiling reached, order history may be truncated")
			break
		}

		page, err := c.fetchPage(ctx, cookie, lastID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if len(result.Orders) == 0 {
				return nil, err
			}
			c.logger.WithError(err).WithFields(logrus.Fields{
				"pages":  result.Pages,
				"orders": len(result.Orders),
			}).Warn("order history incomplete")
			result.Partial = true
			result.StopReason = err
			break
		}

		if page.total > 0 {
			total = page.total
			result.Total = total
		}
		if len(page.orders) == 0 {
			break
		}

		result.Orders = append(result.Orders, page.orders...)
		result.Pages++
		lastID = page.orders[len(page.orders)-1].ID.String()
		if onPage != nil {
			onPage(result.Pages, len(result.Orders), total)
		}
	}

	c.logger.WithFields(logrus.Fields{
		"pages":  result.Pages,
		"orders": len(result.Orders),
	}).Info("order history fetched")
	return result, nil
}

func (c *Client) fetchPage(ctx context.Context, cookie, lastID string) (*ordersPage, error) {
	resp, err := c.do(ctx, http.MethodGet, ordersPath+"?order_id="+url.QueryEscape(lastID), nil, cookie)
	if err != nil {
		return nil, err
	}

	if resp.blocked() {
		return nil, newError(ErrBlocked, resp.status, "try copying the full cookie string from your browser")
	}
	if resp.status == http.StatusUnauthorized || resp.status == http.StatusForbidden {
		return nil, newError(ErrUnauthorized, resp.status, "get a fresh session token")
	}
	if len(bytes.TrimSpace(resp.body)) == 0 {
		return nil, newError(ErrMalformed, resp.status, "empty response, the token may be invalid or expired")
	}

	var data models.OrdersResponse
	if err := json.Unmarshal(resp.body, &data); err != nil {
		return nil, &UpstreamError{Kind: ErrMalformed, Status: resp.status, Message: "unexpected response", Err: err}
	}
	if data.StatusCode != 0 || data.Data == nil || data.Data.Orders == nil {
		msg := strings.TrimSpace(data.StatusMessage)
		if msg == "" {
			msg = "failed to fetch orders"
		}
		return nil, newError(ErrMalformed, resp.status, "%s", msg)
	}

	return &ordersPage{orders: data.Data.Orders, total: data.Data.TotalOrders}, nil
}
