package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DidierBrusa/tap-talk-api/internal/notify"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamNotificaciones(t *testing.T) {
	api := newTestAPI(t, apiOptions{})
	srv := httptest.NewServer(api)
	defer srv.Close()

	createAuxiliar(t, api, "ext-ana", "ana")
	g := createGrupo(t, api, "ext-ana", "Paciente Uno")
	gid := int64(g["id"].(float64))
	rec := do(t, api, http.MethodPost, "/api/pictogramas", map[string]any{"nombre": "Agua"})
	require.Equal(t, http.StatusCreated, rec.Code)
	pid := decode[map[string]any](t, rec)["id"]

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/grupos/" + itoa(gid) + "/notificaciones/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.Eventually(t, func() bool { return api.hub.Subscribers(gid) == 1 }, 2*time.Second, 10*time.Millisecond)

	rec = do(t, api, http.MethodPost, "/api/notificaciones", map[string]any{"pictograma_id": pid, "grupo_id": gid})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev notify.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, notify.EventCreated, ev.Type)
	assert.Equal(t, gid, ev.GrupoID)
	require.NotNil(t, ev.Notificacion)
	assert.Equal(t, "Agua", ev.Notificacion.Contenido)

	conn.Close()
	require.Eventually(t, func() bool { return api.hub.Subscribers(gid) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestStreamNotificaciones_UnknownGrupo(t *testing.T) {
	api := newTestAPI(t, apiOptions{})
	rec := do(t, api, http.MethodGet, "/api/grupos/42/notificaciones/ws", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
