package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vfg2006/business-manager-api/internal/domain"
)

// CurrentUser consulta a sessão no servidor. Sem sessão devolve (nil, nil).
func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, UserPath, nil, &user, false); err != nil {
		if IsUnauthorized(err) {
			c.session.SetUser(nil)
			return nil, nil
		}
		return nil, err
	}

	c.session.SetUser(&user)
	return &user, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	var result domain.LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := c.Do(ctx, http.MethodPost, "/api/login", body, &result); err != nil {
		return nil, err
	}

	c.session.SetUser(result.User)
	return &result, nil
}

func (c *Client) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error) {
	var user domain.User
	if err := c.Do(ctx, http.MethodPost, "/api/register", req, &user); err != nil {
		return nil, err
	}

	c.session.SetUser(&user)
	return &user, nil
}

// Logout limpa o estado local mesmo se o servidor recusar
func (c *Client) Logout(ctx context.Context) error {
	err := c.Do(ctx, http.MethodPost, "/api/logout", nil, nil)

	c.session.Reset()
	c.cache.Purge()

	return err
}

func (c *Client) ListBusinesses(ctx context.Context) ([]domain.Business, error) {
	var businesses []domain.Business
	if err := c.Do(ctx, http.MethodGet, "/api/businesses", nil, &businesses); err != nil {
		return nil, err
	}
	return businesses, nil
}

// SwitchBusiness torna o negócio o padrão no servidor e o ativo neste cliente
func (c *Client) SwitchBusiness(ctx context.Context, businessID int) (*domain.Business, error) {
	var selected domain.Business
	path := fmt.Sprintf("/api/businesses/%d/switch", businessID)
	if err := c.Do(ctx, http.MethodPost, path, nil, &selected); err != nil {
		return nil, err
	}

	c.session.SetBusinessID(selected.ID)
	return &selected, nil
}

func (c *Client) ListProducts(ctx context.Context, search string) ([]domain.Product, error) {
	path := "/api/products"
	if search != "" {
		path += "?" + url.Values{"search": {search}}.Encode()
	}

	var products []domain.Product
	if err := c.Do(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) CreateSale(ctx context.Context, req *domain.CreateSaleRequest) (*domain.Sale, error) {
	var sale domain.Sale
	if err := c.Do(ctx, http.MethodPost, "/api/sales", req, &sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

// Stats devolve o painel do negócio ativo; year 0 usa o ano corrente do servidor
func (c *Client) Stats(ctx context.Context, year int) (*domain.Dashboard, error) {
	path := "/api/stats"
	if year > 0 {
		path += "?year=" + strconv.Itoa(year)
	}

	var dashboard domain.Dashboard
	if err := c.Do(ctx, http.MethodGet, path, nil, &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}
