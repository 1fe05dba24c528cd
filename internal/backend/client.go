// Package backend implementa el cliente HTTP hacia el backend de incidentes.
// Es la única frontera donde existen los registros crudos: todo lo que sale
// de aquí ya está normalizado al modelo canónico.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/alerta-utec/incident_dashboard/internal/config"
	"github.com/alerta-utec/incident_dashboard/internal/models"
	"github.com/alerta-utec/incident_dashboard/internal/normalize"
	"github.com/alerta-utec/incident_dashboard/internal/query"
	"github.com/sirupsen/logrus"
)

// AssignRequest es el cuerpo de la asignación. Se envían nombre, email e id
// para que el backend pueda usar cualquiera de las tres representaciones.
type AssignRequest struct {
	AtendidoPor   string `json:"atendidoPor,omitempty"`
	AtendidoEmail string `json:"atendidoEmail,omitempty"`
	AtendidoID    string `json:"atendidoId,omitempty"`
}

// ResolveRequest es el cuerpo de la resolución de un incidente.
type ResolveRequest struct {
	Solucion         string `json:"solucion,omitempty"`
	TiempoResolucion *int   `json:"tiempoResolucion,omitempty"`
}

// AuthResult es el resultado canónico de login o registro.
type AuthResult struct {
	Token string
	User  models.User
}

// Claves bajo las que puede llegar el registro actualizado de un PATCH.
var incidentRecordKeys = []string{"incidente", "incident", "data"}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BackendURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.BackendTimeout,
		},
		logger: log,
	}
}

// ListIncidents obtiene y normaliza el listado de incidentes. Los filtros
// estructurados viajan como parámetros de consulta; la búsqueda libre se
// aplica localmente en la capa de servicio.
func (c *Client) ListIncidents(ctx context.Context, token string, filters models.FilterState) ([]models.Incident, error) {
	log := c.logger.WithField("method", "ListIncidents")

	endpoint := c.baseURL + "/incidentes"
	if params := query.Params(filters); len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	payload, err := c.doJSON(ctx, http.MethodGet, endpoint, token, nil, false)
	if err != nil {
		return nil, err
	}

	raws := normalize.UnwrapList(log, payload, normalize.IncidentEnvelopeKeys)
	return normalize.Incidents(log, raws), nil
}

// ListUsers obtiene y normaliza el directorio de usuarios. Algunas
// versiones del backend solo exponen /trabajadores; si /usuarios no existe
// se reintenta contra esa ruta.
func (c *Client) ListUsers(ctx context.Context, token string) ([]models.User, error) {
	log := c.logger.WithField("method", "ListUsers")

	payload, err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/usuarios", token, nil, false)
	if errors.Is(err, ErrNotFound) {
		payload, err = c.doJSON(ctx, http.MethodGet, c.baseURL+"/trabajadores", token, nil, false)
	}
	if err != nil {
		return nil, err
	}

	raws := normalize.UnwrapList(log, payload, normalize.UserListEnvelopeKeys)
	return normalize.Users(log, raws), nil
}

// GetHistory obtiene y normaliza el historial de un incidente, ya ordenado
// ascendente por fecha.
func (c *Client) GetHistory(ctx context.Context, token, incidentID string) ([]models.TimelineEvent, error) {
	log := c.logger.WithFields(logrus.Fields{"method": "GetHistory", "incident_id": incidentID})

	endpoint := fmt.Sprintf("%s/incidentes/%s/historial", c.baseURL, url.PathEscape(incidentID))
	payload, err := c.doJSON(ctx, http.MethodGet, endpoint, token, nil, false)
	if err != nil {
		return nil, err
	}

	raws := normalize.UnwrapList(log, payload, normalize.HistoryEnvelopeKeys)
	return normalize.History(log, raws, incidentID), nil
}

// AssignIncident ejecuta el PATCH de asignación y devuelve el incidente
// actualizado; la respuesta puede llegar envuelta bajo "incidente".
func (c *Client) AssignIncident(ctx context.Context, token, incidentID string, req AssignRequest) (*models.Incident, error) {
	endpoint := fmt.Sprintf("%s/incidentes/%s/asignar", c.baseURL, url.PathEscape(incidentID))
	return c.patchIncident(ctx, token, endpoint, req)
}

// ResolveIncident ejecuta el PATCH de resolución.
func (c *Client) ResolveIncident(ctx context.Context, token, incidentID string, req ResolveRequest) (*models.Incident, error) {
	endpoint := fmt.Sprintf("%s/incidentes/%s/resolver", c.baseURL, url.PathEscape(incidentID))
	return c.patchIncident(ctx, token, endpoint, req)
}

func (c *Client) patchIncident(ctx context.Context, token, endpoint string, body any) (*models.Incident, error) {
	payload, err := c.doJSON(ctx, http.MethodPatch, endpoint, token, body, false)
	if err != nil {
		return nil, err
	}
	raw := normalize.UnwrapRecord(payload, incidentRecordKeys)
	inc, ok := normalize.Incident(raw)
	if !ok {
		return nil, fmt.Errorf("backend returned an unreadable incident record")
	}
	return &inc, nil
}

// Login autentica contra el backend y devuelve el token junto con el
// usuario canónico.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	payload, err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/auth/login", "", body, true)
	if err != nil {
		return nil, err
	}
	return c.authResult(payload)
}

// Register registra un usuario nuevo.
func (c *Client) Register(ctx context.Context, nombre, email, password, codigo string) (*AuthResult, error) {
	body := map[string]string{
		"nombre":   nombre,
		"email":    email,
		"password": password,
		"codigo":   codigo,
	}
	payload, err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/auth/register", "", body, true)
	if err != nil {
		return nil, err
	}
	return c.authResult(payload)
}

func (c *Client) authResult(payload any) (*AuthResult, error) {
	wrapper, ok := payload.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected auth response shape")
	}

	var token string
	for _, key := range []string{"token", "access_token", "accessToken", "jwt"} {
		if s, ok := wrapper[key].(string); ok && s != "" {
			token = s
			break
		}
	}
	if token == "" {
		return nil, fmt.Errorf("auth response did not include a token")
	}

	userRaw := normalize.UnwrapRecord(wrapper, normalize.UserEnvelopeKeys)
	return &AuthResult{Token: token, User: normalize.User(userRaw)}, nil
}

// doJSON ejecuta una petición y decodifica la respuesta JSON a una forma
// genérica que la capa de normalización sabe interpretar. authEndpoint
// distingue la taxonomía del 401: credenciales inválidas frente a sesión
// caducada.
func (c *Client) doJSON(ctx context.Context, method, endpoint, token string, body any, authEndpoint bool) (any, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := c.statusError(resp.StatusCode, authEndpoint); err != nil {
		return nil, err
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode backend response: %w", err)
	}
	return payload, nil
}

func (c *Client) statusError(status int, authEndpoint bool) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized && authEndpoint:
		return ErrInvalidCredentials
	case status == http.StatusUnauthorized:
		return ErrSessionExpired
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrConflict
	default:
		return fmt.Errorf("backend responded with status %d", status)
	}
}
