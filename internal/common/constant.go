package common

// AuthorizationHeaderName is the HTTP header carrying the bearer access token
// on authenticated requests.
const AuthorizationHeaderName = "Authorization"

// ViewTokenQueryParam is the query parameter carrying the view-session token
// on watermark and content requests.
const ViewTokenQueryParam = "token"
