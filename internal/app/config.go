package app

import (
	"fmt"

	"github.com/barangaylink/sglgb-backend/internal/domain/compliance"
	"github.com/barangaylink/sglgb-backend/internal/platform/envutil"
	"github.com/barangaylink/sglgb-backend/internal/platform/logger"
)

type Config struct {
	HTTPAddr     string
	MetricsAddr  string
	JWTSecretKey string
	RedisAddr    string

	// Policy is the loaded compliance policy: certification thresholds,
	// functionality bands, calibration budget, approval routing.
	Policy compliance.Policy
}

func LoadConfig(log *logger.Logger) (Config, error) {
	policyPath := envutil.String("COMPLIANCE_POLICY_PATH", "")
	policy, err := compliance.LoadPolicy(policyPath)
	if err != nil {
		return Config{}, fmt.Errorf("load compliance policy: %w", err)
	}
	if policyPath == "" {
		log.Info("no policy file configured, using national programme defaults")
	} else {
		log.Info("compliance policy loaded", "path", policyPath)
	}

	return Config{
		HTTPAddr:     envutil.String("HTTP_ADDR", ":8080"),
		MetricsAddr:  envutil.String("METRICS_ADDR", ":9091"),
		JWTSecretKey: envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		RedisAddr:    envutil.String("REDIS_ADDR", ""),
		Policy:       policy,
	}, nil
}
