package middleware

import (
	"net/http"

	"bitbucket.org/crgw/haulier-rates/internal/ratetable"
	"bitbucket.org/crgw/haulier-rates/internal/tools/responding"
	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
)

const (
	CarrierKey string = "carrier"
)

func PrepareCarrier(ctx *gin.Context) {
	var slug string

	err := runtime.BindStyledParameterWithLocation("simple", false, "carrier", runtime.ParamLocationPath, ctx.Param("carrier"), &slug)
	if err != nil {
		responding.HandleError(ctx, http.StatusBadRequest, "Invalid carrier parameter", err)
		return
	}

	carrier, err := ratetable.ParseCarrier(slug)
	if err != nil {
		responding.HandleError(ctx, http.StatusNotFound, "Failed to find carrier", err)
		return
	}

	ctx.Set(CarrierKey, carrier)
}
