package lambdatransport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/awmpietro/autocase/internal/app"
	"github.com/awmpietro/autocase/internal/transport/gendto"
)

type Handler struct {
	svc      app.GenerateService
	withPath bool
}

func NewHandler(svc app.GenerateService, withPath bool) *Handler {
	return &Handler{svc: svc, withPath: withPath}
}

// Generate assumes API Gateway already routed POST /generate here.
func (h *Handler) Generate(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	body, err := readBody(req)
	if err != nil {
		return jsonResp(http.StatusBadRequest, map[string]any{"error": "invalid body", "details": err.Error()}), nil
	}

	var in gendto.GenerateRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return jsonResp(http.StatusBadRequest, map[string]any{"error": "invalid json", "details": err.Error()}), nil
	}

	res, err := h.svc.Generate(ctx, in.Request(h.withPath))
	if err != nil {
		return jsonResp(http.StatusBadRequest, gendto.ErrorBody("generate failed", err)), nil
	}

	contentType, out, err := gendto.Encode(res, in.Format)
	if err != nil {
		return jsonResp(http.StatusBadRequest, gendto.ErrorBody("render failed", err)), nil
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{"content-type": contentType},
		Body:       string(out),
	}, nil
}

func readBody(req events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if req.IsBase64Encoded {
		return base64.StdEncoding.DecodeString(req.Body)
	}
	return []byte(req.Body), nil
}

func jsonResp(status int, body any) events.APIGatewayV2HTTPResponse {
	b, _ := json.Marshal(body)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"content-type": "application/json"},
		Body:       string(b),
	}
}
