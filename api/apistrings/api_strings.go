package apistrings

const (
	/// Basic User Related Strings
	UserNotFound              = "user or account does not exist"
	UserDetailsAlreadyCreated = "email already exists"
	InvalidRegisterInput      = "please enter your full name, a valid email and a password of at least 8 characters"
	InvalidEmailPassInput     = "please enter a valid email and password"
	IncorrectEmailPass        = "incorrect email or password"

	/// Auth
	Unauthorized       = "Unauthorized"
	MissingBearerToken = "Invalid token, expects bearer token"
	AdminOnly          = "this resource is restricted to administrators"

	/// Core Functionality Error
	ServerError       = "a server error occurred, please try again later"
	RateLimitExceeded = "rate limit exceeded"

	/// Wallet Related Strings
	UserNoWallet            = "user does not have a wallet created"
	InvalidTransactionQuery = "check 'limit' or 'offset' query params, invalid request"

	/// Payment Related Strings
	InvalidPaymentInput = "Parâmetros de pagamento inválidos"

	/// Coupon Related Strings
	InvalidCouponInput = "check 'code', 'discount_percentage', 'usage_limit' or 'expires_at', invalid request"
	CouponIssued       = "Cupom gerado com sucesso! Válido por 30 dias e apenas para uma compra."
	CouponReused       = "Você já possui um cupom ativo! Use o código acima."

	/// Currency Related Strings
	InvalidConversionInput = "Missing required parameters: amount, from, to"
	CurrencyNotSupported   = "Invalid currency. Supported: USD, BRL, AOA"
)
