package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/contexthub-dev/contexthub/internal/models"
	"github.com/contexthub-dev/contexthub/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const oauthStateCookie = "oauth_state"

var userinfoURLs = map[string]string{
	"google": "https://www.googleapis.com/oauth2/v2/userinfo",
	"github": "https://api.github.com/user",
}

func oauthConfig(provider string) *oauth2.Config {
	var endpoint oauth2.Endpoint
	var scopes []string

	switch provider {
	case "google":
		endpoint = endpoints.Google
		scopes = []string{"openid", "email"}
	case "github":
		endpoint = endpoints.GitHub
		scopes = []string{"read:user"}
	default:
		return nil
	}

	prefix := "OAUTH_" + strings.ToUpper(provider)
	clientID := os.Getenv(prefix + "_CLIENT_ID")
	clientSecret := os.Getenv(prefix + "_CLIENT_SECRET")

	if clientID == "" || clientSecret == "" {
		return nil
	}

	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     endpoint,
		RedirectURL:  os.Getenv("OAUTH_REDIRECT_BASE") + "/api/auth/oauth/" + provider + "/callback",
		Scopes:       scopes,
	}
}

// OAuthRedirect starts the linking flow for the authenticated user.
func (h *Handler) OAuthRedirect(ctx *gin.Context) {
	provider := ctx.Param("provider")
	conf := oauthConfig(provider)

	if conf == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Unknown or unconfigured provider"})
		return
	}

	state := uuid.NewString()

	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   300,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	ctx.JSON(http.StatusOK, gin.H{"url": conf.AuthCodeURL(state)})
}

// OAuthCallback exchanges the code and records the linkage for the current
// user.
func (h *Handler) OAuthCallback(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	provider := ctx.Param("provider")
	conf := oauthConfig(provider)

	if conf == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Unknown or unconfigured provider"})
		return
	}

	stateCookie, err := ctx.Request.Cookie(oauthStateCookie)

	if err != nil || stateCookie.Value == "" || stateCookie.Value != ctx.Query("state") {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OAuth state"})
		return
	}

	code := ctx.Query("code")

	if code == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing authorization code"})
		return
	}

	token, err := conf.Exchange(ctx.Request.Context(), code)

	if err != nil {
		h.logger.Warn("oauth exchange failed", zap.String("provider", provider), zap.Error(err))
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "Provider exchange failed"})
		return
	}

	subject, err := fetchProviderSubject(ctx, conf, provider, token)

	if err != nil {
		h.logger.Warn("oauth userinfo failed", zap.String("provider", provider), zap.Error(err))
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "Provider lookup failed"})
		return
	}

	linkage := models.AuthLinkage{
		UserID:            userID,
		Provider:          provider,
		ProviderAccountID: subject,
	}

	if err := h.db.Where("provider = ? AND provider_account_id = ?", provider, subject).
		FirstOrCreate(&linkage).Error; err != nil {
		h.logger.Error("failed to store auth linkage", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if linkage.UserID != userID {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Provider account already linked to another user"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Account linked successfully", "provider": provider})
}

func fetchProviderSubject(ctx *gin.Context, conf *oauth2.Config, provider string, token *oauth2.Token) (string, error) {
	client := conf.Client(ctx.Request.Context(), token)

	resp, err := client.Get(userinfoURLs[provider])

	if err != nil {
		return "", err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("userinfo returned %s", resp.Status)
	}

	var payload map[string]interface{}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}

	id, ok := payload["id"]

	if !ok {
		return "", fmt.Errorf("userinfo response missing id")
	}

	return fmt.Sprint(id), nil
}
