package quoting

import (
	"errors"
	"net/http"

	quotingMiddleware "bitbucket.org/crgw/haulier-rates/internal/quoting/middleware"
	"bitbucket.org/crgw/haulier-rates/internal/pricing"
	"bitbucket.org/crgw/haulier-rates/internal/ratetable"
	"bitbucket.org/crgw/haulier-rates/internal/schema"
	"bitbucket.org/crgw/haulier-rates/internal/surcharge"
	"bitbucket.org/crgw/haulier-rates/internal/tools/grouping"
	"bitbucket.org/crgw/haulier-rates/internal/tools/redisfactory"
	"bitbucket.org/crgw/haulier-rates/internal/tools/responding"
	"bitbucket.org/crgw/haulier-rates/internal/tools/slowlog"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type handler struct {
	table      *ratetable.Table
	surcharges *surcharge.Service
}

func RegisterRoutes(
	router *gin.Engine,
	table *ratetable.Table,
	surcharges *surcharge.Service,
	redisFactory *redisfactory.Factory,
	operatorSecret []byte,
) {
	h := &handler{
		table:      table,
		surcharges: surcharges,
	}

	router.GET("/quote",
		quotingMiddleware.TapLogger("quote"),
		quotingMiddleware.PrepareParams(schema.QuoteRequestParams{}),
		h.quote,
	)

	router.GET("/areas",
		quotingMiddleware.TapLogger("areas"),
		quotingMiddleware.PrepareParams(schema.AreasRequestParams{}),
		h.areas,
	)

	carriers := router.Group(
		"/carriers/:carrier",
		quotingMiddleware.PrepareCarrier,
		quotingMiddleware.TapLogger("rate-card"),
	)

	carriers.GET("/rates",
		quotingMiddleware.PrepareParams(schema.RateCardRequestParams{}),
		h.rateCard,
	)

	surchargeRoutes := router.Group(
		"/surcharges/joda",
		quotingMiddleware.TapLogger("joda-surcharge"),
	)

	surchargeRoutes.GET("", h.currentSurcharge)

	surchargeRoutes.PUT("",
		quotingMiddleware.RequireOperator(operatorSecret),
		quotingMiddleware.PrepareParams(schema.SaveSurchargeRequest{}),
		h.saveSurcharge,
	)

	surchargeRoutes.POST("/refresh",
		quotingMiddleware.RequireOperator(operatorSecret),
		grouping.Middleware(grouping.MiddlewareOptions{
			CreateManager: grouping.NewRequestManager,
			RedisClient:   redisFactory.SurchargeStoreClient(),
			CacheKey: func(c *gin.Context) string {
				return "grouping:surcharges:joda:refresh"
			},
		}),
		h.refreshSurcharge,
	)
}

func (h *handler) quote(ctx *gin.Context) {
	logger := ctx.MustGet("logger").(*zerolog.Logger)

	slowLog := slowlog.CreateLogger(logger)
	slowLog.Start("quote")
	defer slowLog.Stop("quote")

	params, ok := ctx.MustGet(quotingMiddleware.ParamsKey).(*schema.QuoteRequestParams)
	if !ok {
		responding.HandleError(ctx, http.StatusInternalServerError, "Bad request params", nil)
		return
	}

	service, err := ratetable.ParseServiceType(params.Service)
	if err != nil {
		handleQuotingError(ctx, err)
		return
	}

	mcdowellsPct, err := pricing.ParseSurcharge(params.McDowellsSurchargePct)
	if err != nil {
		handleQuotingError(ctx, err)
		return
	}

	table, joda, err := h.surcharges.Apply(ctx.Request.Context(), h.table)
	if err != nil {
		logger.Warn().Err(err).Msg("Joda surcharge store unavailable, using the table value")

		table = h.table
		joda = surcharge.Record{Pct: h.table.JodaSurcharge(), Source: surcharge.SourceTable}
	}

	query := pricing.Query{
		Postcode:              params.Postcode,
		Service:               service,
		Pallets:               params.Pallets,
		McDowellsSurchargePct: mcdowellsPct,
		Extras: pricing.Extras{
			AMPMDelivery:  params.AmPm,
			TimedDelivery: params.Timed,
		},
	}

	if params.DualCollection {
		query.Extras.DualCollection = &pricing.Split{
			First:  params.FirstGroup,
			Second: params.SecondGroup,
		}
	}

	result, err := pricing.Quote(table, query)
	if err != nil {
		handleQuotingError(ctx, err)
		return
	}

	logger.Debug().
		Str("outwardCode", result.OutwardCode).
		Int("pallets", result.Pallets).
		Msg("quoted")

	ctx.JSON(http.StatusOK, newQuoteResponse(result, joda))
}

func (h *handler) areas(ctx *gin.Context) {
	params, ok := ctx.MustGet(quotingMiddleware.ParamsKey).(*schema.AreasRequestParams)
	if !ok {
		responding.HandleError(ctx, http.StatusInternalServerError, "Bad request params", nil)
		return
	}

	response := schema.AreasResponse{}

	var service ratetable.ServiceType
	if params.Service != "" {
		parsed, err := ratetable.ParseServiceType(params.Service)
		if err != nil {
			handleQuotingError(ctx, err)
			return
		}

		service = parsed
		response.Service = service.String()
	}

	response.Prefixes = h.table.Prefixes(service)

	ctx.JSON(http.StatusOK, response)
}

func (h *handler) rateCard(ctx *gin.Context) {
	carrier := ctx.MustGet(quotingMiddleware.CarrierKey).(ratetable.Carrier)

	params, ok := ctx.MustGet(quotingMiddleware.ParamsKey).(*schema.RateCardRequestParams)
	if !ok {
		responding.HandleError(ctx, http.StatusInternalServerError, "Bad request params", nil)
		return
	}

	service, err := ratetable.ParseServiceType(params.Service)
	if err != nil {
		handleQuotingError(ctx, err)
		return
	}

	mcdowellsPct, err := pricing.ParseSurcharge(params.McDowellsSurchargePct)
	if err != nil {
		handleQuotingError(ctx, err)
		return
	}

	table, _, err := h.surcharges.Apply(ctx.Request.Context(), h.table)
	if err != nil {
		responding.HandleError(ctx, http.StatusInternalServerError, "Failed loading Joda surcharge", err)
		return
	}

	card, err := pricing.NewRateCard(table, pricing.RateCardQuery{
		Carrier:               carrier,
		Postcode:              params.Postcode,
		Service:               service,
		McDowellsSurchargePct: mcdowellsPct,
	})
	if err != nil {
		handleQuotingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newRateCardResponse(card))
}

func (h *handler) currentSurcharge(ctx *gin.Context) {
	record, err := h.surcharges.Current(ctx.Request.Context(), h.table)
	if err != nil {
		responding.HandleError(ctx, http.StatusInternalServerError, "Failed loading Joda surcharge", err)
		return
	}

	ctx.JSON(http.StatusOK, newSurchargeInfo(record))
}

func (h *handler) saveSurcharge(ctx *gin.Context) {
	params, ok := ctx.MustGet(quotingMiddleware.ParamsKey).(*schema.SaveSurchargeRequest)
	if !ok {
		responding.HandleError(ctx, http.StatusInternalServerError, "Bad request params", nil)
		return
	}

	record, err := h.surcharges.Save(ctx.Request.Context(), decimal.Decimal(*params.Pct))
	if err != nil {
		handleQuotingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newSurchargeInfo(record))
}

func (h *handler) refreshSurcharge(ctx *gin.Context) {
	record, err := h.surcharges.Refresh(ctx.Request.Context())
	if err != nil {
		handleQuotingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newSurchargeInfo(record))
}

func handleQuotingError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ratetable.ErrUnrecognizedServiceType):
		responding.HandleError(ctx, http.StatusBadRequest, "Unrecognized service type", err)
	case errors.Is(err, pricing.ErrInvalidSurcharge):
		responding.HandleError(ctx, http.StatusBadRequest, "Invalid surcharge", err)
	case errors.Is(err, pricing.ErrInvalidPostcode):
		responding.HandleError(ctx, http.StatusBadRequest, "Invalid postcode", err)
	case errors.Is(err, pricing.ErrInvalidDualCollection):
		responding.HandleError(ctx, http.StatusBadRequest, "Invalid dual collection split", err)
	case errors.Is(err, pricing.ErrUnknownPostcode):
		responding.HandleError(ctx, http.StatusNotFound, "No rates for postcode", err)
	case errors.Is(err, ratetable.ErrUnknownCarrier):
		responding.HandleError(ctx, http.StatusNotFound, "Failed to find carrier", err)
	case errors.Is(err, pricing.ErrPalletCountOutOfRange):
		responding.HandleError(ctx, http.StatusUnprocessableEntity, "Pallet count out of range", err)
	case errors.Is(err, surcharge.ErrFetchFailed), errors.Is(err, surcharge.ErrSurchargeNotFound):
		responding.HandleError(ctx, http.StatusBadGateway, "Failed fetching Joda surcharge", err)
	default:
		responding.HandleError(ctx, http.StatusInternalServerError, "Failed quoting", err)
	}
}
