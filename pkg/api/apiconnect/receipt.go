package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/smartsplit/pkg/api"
)

// ReceiptServiceName is the fully-qualified name of the ReceiptService.
const ReceiptServiceName = "smartsplit.v1.ReceiptService"

const (
	ReceiptServiceExtractReceiptProcedure = "/smartsplit.v1.ReceiptService/ExtractReceipt"
	ReceiptServiceCreateReceiptProcedure  = "/smartsplit.v1.ReceiptService/CreateReceipt"
	ReceiptServiceGetReceiptProcedure     = "/smartsplit.v1.ReceiptService/GetReceipt"
	ReceiptServiceUpdateReceiptProcedure  = "/smartsplit.v1.ReceiptService/UpdateReceipt"
	ReceiptServiceDeleteReceiptProcedure  = "/smartsplit.v1.ReceiptService/DeleteReceipt"
	ReceiptServiceListReceiptsProcedure   = "/smartsplit.v1.ReceiptService/ListReceipts"
	ReceiptServiceCalculateSplitProcedure = "/smartsplit.v1.ReceiptService/CalculateSplit"
	ReceiptServiceFinalizeSplitProcedure  = "/smartsplit.v1.ReceiptService/FinalizeSplit"
	ReceiptServiceShareSplitProcedure     = "/smartsplit.v1.ReceiptService/ShareSplit"
	ReceiptServiceGetAnalyticsProcedure   = "/smartsplit.v1.ReceiptService/GetAnalytics"
)

// ReceiptServiceHandler is implemented by the server. Every procedure
// requires an authenticated caller.
type ReceiptServiceHandler interface {
	ExtractReceipt(context.Context, *connect.Request[api.ExtractReceiptRequest]) (*connect.Response[api.ExtractReceiptResponse], error)
	CreateReceipt(context.Context, *connect.Request[api.CreateReceiptRequest]) (*connect.Response[api.CreateReceiptResponse], error)
	GetReceipt(context.Context, *connect.Request[api.GetReceiptRequest]) (*connect.Response[api.GetReceiptResponse], error)
	UpdateReceipt(context.Context, *connect.Request[api.UpdateReceiptRequest]) (*connect.Response[api.UpdateReceiptResponse], error)
	DeleteReceipt(context.Context, *connect.Request[api.DeleteReceiptRequest]) (*connect.Response[api.DeleteReceiptResponse], error)
	ListReceipts(context.Context, *connect.Request[api.ListReceiptsRequest]) (*connect.Response[api.ListReceiptsResponse], error)
	CalculateSplit(context.Context, *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error)
	FinalizeSplit(context.Context, *connect.Request[api.FinalizeSplitRequest]) (*connect.Response[api.FinalizeSplitResponse], error)
	ShareSplit(context.Context, *connect.Request[api.ShareSplitRequest]) (*connect.Response[api.ShareSplitResponse], error)
	GetAnalytics(context.Context, *connect.Request[api.GetAnalyticsRequest]) (*connect.Response[api.GetAnalyticsResponse], error)
}

// NewReceiptServiceHandler returns the path to mount the service at and its handler.
func NewReceiptServiceHandler(svc ReceiptServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)
	handlers := map[string]http.Handler{
		ReceiptServiceExtractReceiptProcedure: connect.NewUnaryHandler(ReceiptServiceExtractReceiptProcedure, svc.ExtractReceipt, opts...),
		ReceiptServiceCreateReceiptProcedure:  connect.NewUnaryHandler(ReceiptServiceCreateReceiptProcedure, svc.CreateReceipt, opts...),
		ReceiptServiceGetReceiptProcedure:     connect.NewUnaryHandler(ReceiptServiceGetReceiptProcedure, svc.GetReceipt, opts...),
		ReceiptServiceUpdateReceiptProcedure:  connect.NewUnaryHandler(ReceiptServiceUpdateReceiptProcedure, svc.UpdateReceipt, opts...),
		ReceiptServiceDeleteReceiptProcedure:  connect.NewUnaryHandler(ReceiptServiceDeleteReceiptProcedure, svc.DeleteReceipt, opts...),
		ReceiptServiceListReceiptsProcedure:   connect.NewUnaryHandler(ReceiptServiceListReceiptsProcedure, svc.ListReceipts, opts...),
		ReceiptServiceCalculateSplitProcedure: connect.NewUnaryHandler(ReceiptServiceCalculateSplitProcedure, svc.CalculateSplit, opts...),
		ReceiptServiceFinalizeSplitProcedure:  connect.NewUnaryHandler(ReceiptServiceFinalizeSplitProcedure, svc.FinalizeSplit, opts...),
		ReceiptServiceShareSplitProcedure:     connect.NewUnaryHandler(ReceiptServiceShareSplitProcedure, svc.ShareSplit, opts...),
		ReceiptServiceGetAnalyticsProcedure:   connect.NewUnaryHandler(ReceiptServiceGetAnalyticsProcedure, svc.GetAnalytics, opts...),
	}

	return "/" + ReceiptServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// ReceiptServiceClient calls ReceiptService.
type ReceiptServiceClient interface {
	ExtractReceipt(context.Context, *connect.Request[api.ExtractReceiptRequest]) (*connect.Response[api.ExtractReceiptResponse], error)
	CreateReceipt(context.Context, *connect.Request[api.CreateReceiptRequest]) (*connect.Response[api.CreateReceiptResponse], error)
	GetReceipt(context.Context, *connect.Request[api.GetReceiptRequest]) (*connect.Response[api.GetReceiptResponse], error)
	UpdateReceipt(context.Context, *connect.Request[api.UpdateReceiptRequest]) (*connect.Response[api.UpdateReceiptResponse], error)
	DeleteReceipt(context.Context, *connect.Request[api.DeleteReceiptRequest]) (*connect.Response[api.DeleteReceiptResponse], error)
	ListReceipts(context.Context, *connect.Request[api.ListReceiptsRequest]) (*connect.Response[api.ListReceiptsResponse], error)
	CalculateSplit(context.Context, *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error)
	FinalizeSplit(context.Context, *connect.Request[api.FinalizeSplitRequest]) (*connect.Response[api.FinalizeSplitResponse], error)
	ShareSplit(context.Context, *connect.Request[api.ShareSplitRequest]) (*connect.Response[api.ShareSplitResponse], error)
	GetAnalytics(context.Context, *connect.Request[api.GetAnalyticsRequest]) (*connect.Response[api.GetAnalyticsResponse], error)
}

type receiptServiceClient struct {
	extractReceipt *connect.Client[api.ExtractReceiptRequest, api.ExtractReceiptResponse]
	createReceipt  *connect.Client[api.CreateReceiptRequest, api.CreateReceiptResponse]
	getReceipt     *connect.Client[api.GetReceiptRequest, api.GetReceiptResponse]
	updateReceipt  *connect.Client[api.UpdateReceiptRequest, api.UpdateReceiptResponse]
	deleteReceipt  *connect.Client[api.DeleteReceiptRequest, api.DeleteReceiptResponse]
	listReceipts   *connect.Client[api.ListReceiptsRequest, api.ListReceiptsResponse]
	calculateSplit *connect.Client[api.CalculateSplitRequest, api.CalculateSplitResponse]
	finalizeSplit  *connect.Client[api.FinalizeSplitRequest, api.FinalizeSplitResponse]
	shareSplit     *connect.Client[api.ShareSplitRequest, api.ShareSplitResponse]
	getAnalytics   *connect.Client[api.GetAnalyticsRequest, api.GetAnalyticsResponse]
}

// NewReceiptServiceClient returns a client for the ReceiptService at baseURL.
func NewReceiptServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ReceiptServiceClient {
	opts = withClientCodec(opts)
	return &receiptServiceClient{
		extractReceipt: connect.NewClient[api.ExtractReceiptRequest, api.ExtractReceiptResponse](httpClient, baseURL+ReceiptServiceExtractReceiptProcedure, opts...),
		createReceipt:  connect.NewClient[api.CreateReceiptRequest, api.CreateReceiptResponse](httpClient, baseURL+ReceiptServiceCreateReceiptProcedure, opts...),
		getReceipt:     connect.NewClient[api.GetReceiptRequest, api.GetReceiptResponse](httpClient, baseURL+ReceiptServiceGetReceiptProcedure, opts...),
		updateReceipt:  connect.NewClient[api.UpdateReceiptRequest, api.UpdateReceiptResponse](httpClient, baseURL+ReceiptServiceUpdateReceiptProcedure, opts...),
		deleteReceipt:  connect.NewClient[api.DeleteReceiptRequest, api.DeleteReceiptResponse](httpClient, baseURL+ReceiptServiceDeleteReceiptProcedure, opts...),
		listReceipts:   connect.NewClient[api.ListReceiptsRequest, api.ListReceiptsResponse](httpClient, baseURL+ReceiptServiceListReceiptsProcedure, opts...),
		calculateSplit: connect.NewClient[api.CalculateSplitRequest, api.CalculateSplitResponse](httpClient, baseURL+ReceiptServiceCalculateSplitProcedure, opts...),
		finalizeSplit:  connect.NewClient[api.FinalizeSplitRequest, api.FinalizeSplitResponse](httpClient, baseURL+ReceiptServiceFinalizeSplitProcedure, opts...),
		shareSplit:     connect.NewClient[api.ShareSplitRequest, api.ShareSplitResponse](httpClient, baseURL+ReceiptServiceShareSplitProcedure, opts...),
		getAnalytics:   connect.NewClient[api.GetAnalyticsRequest, api.GetAnalyticsResponse](httpClient, baseURL+ReceiptServiceGetAnalyticsProcedure, opts...),
	}
}

func (c *receiptServiceClient) ExtractReceipt(ctx context.Context, req *connect.Request[api.ExtractReceiptRequest]) (*connect.Response[api.ExtractReceiptResponse], error) {
	return c.extractReceipt.CallUnary(ctx, req)
}

func (c *receiptServiceClient) CreateReceipt(ctx context.Context, req *connect.Request[api.CreateReceiptRequest]) (*connect.Response[api.CreateReceiptResponse], error) {
	return c.createReceipt.CallUnary(ctx, req)
}

func (c *receiptServiceClient) GetReceipt(ctx context.Context, req *connect.Request[api.GetReceiptRequest]) (*connect.Response[api.GetReceiptResponse], error) {
	return c.getReceipt.CallUnary(ctx, req)
}

func (c *receiptServiceClient) UpdateReceipt(ctx context.Context, req *connect.Request[api.UpdateReceiptRequest]) (*connect.Response[api.UpdateReceiptResponse], error) {
	return c.updateReceipt.CallUnary(ctx, req)
}

func (c *receiptServiceClient) DeleteReceipt(ctx context.Context, req *connect.Request[api.DeleteReceiptRequest]) (*connect.Response[api.DeleteReceiptResponse], error) {
	return c.deleteReceipt.CallUnary(ctx, req)
}

func (c *receiptServiceClient) ListReceipts(ctx context.Context, req *connect.Request[api.ListReceiptsRequest]) (*connect.Response[api.ListReceiptsResponse], error) {
	return c.listReceipts.CallUnary(ctx, req)
}

func (c *receiptServiceClient) CalculateSplit(ctx context.Context, req *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error) {
	return c.calculateSplit.CallUnary(ctx, req)
}

func (c *receiptServiceClient) FinalizeSplit(ctx context.Context, req *connect.Request[api.FinalizeSplitRequest]) (*connect.Response[api.FinalizeSplitResponse], error) {
	return c.finalizeSplit.CallUnary(ctx, req)
}

func (c *receiptServiceClient) ShareSplit(ctx context.Context, req *connect.Request[api.ShareSplitRequest]) (*connect.Response[api.ShareSplitResponse], error) {
	return c.shareSplit.CallUnary(ctx, req)
}

func (c *receiptServiceClient) GetAnalytics(ctx context.Context, req *connect.Request[api.GetAnalyticsRequest]) (*connect.Response[api.GetAnalyticsResponse], error) {
	return c.getAnalytics.CallUnary(ctx, req)
}
