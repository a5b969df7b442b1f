package providers

import (
	"github.com/smallbiznis/vulca/internal/providers/accounts"
	"github.com/smallbiznis/vulca/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	accounts.Module,
	pdf.Module,
)
