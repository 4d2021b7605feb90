package http

import (
	"net/http"

	"github.com/aussiebroadwan/guildhall/pkg/httpx"
	"github.com/aussiebroadwan/guildhall/pkg/jwtx"
	"github.com/aussiebroadwan/guildhall/pkg/sessionsdk"
)

// JWKSHandler exposes the public keys that verify access tokens. With a
// symmetric algorithm the set is empty.
//
//	@Summary		Get JWKS
//	@Description	Returns the JSON Web Key Set used to verify access tokens. Empty when tokens are signed with HS256.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	sessionsdk.JWKSResponse	"The JSON Web Key Set"
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, sessionsdk.JWKSResponse(keys.PublicJWKS()))
	}
}
