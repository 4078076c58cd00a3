package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Seann-Moser/pca9685/pkg/pca9685"
)

// Client is a register transport backed by a remote Server.
type Client struct {
	base string
	http *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

func (c *Client) WriteRegister(bus int, addr, reg, value uint8) error {
	return c.post("/api/register", RegisterRequest{Bus: bus, Addr: addr, Reg: reg, Value: value})
}

func (c *Client) WriteBlock(bus int, addr, reg uint8, data [4]byte) error {
	return c.post("/api/block", BlockRequest{Bus: bus, Addr: addr, Reg: reg, Data: data})
}

func (c *Client) ReadRegister(bus int, addr, reg uint8) (uint8, error) {
	q := url.Values{}
	q.Set("bus", strconv.Itoa(bus))
	q.Set("addr", strconv.Itoa(int(addr)))
	q.Set("reg", strconv.Itoa(int(reg)))
	resp, err := c.http.Get(c.base + "/api/register?" + q.Encode())
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return 0, statusError(resp, body)
	}
	return pca9685.ParseRegisterValue(string(body))
}

func (c *Client) post(path string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	resp, err := c.http.Post(c.base+path, "application/json", bytes.NewReader(b))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return statusError(resp, body)
	}
	return nil
}

func statusError(resp *http.Response, body []byte) error {
	return fmt.Errorf("remote %s %s: %s: %s", resp.Request.Method, resp.Request.URL.Path, resp.Status, strings.TrimSpace(string(body)))
}
