// Package token はアクセストークン（HS256署名のJWT）の発行と検証を提供する。
//
// 発行側（ユーザーサービス）と検証側（Gateway）は同じConfigとClaimsを共有し、
// 検証ロジックはValidatorの一箇所にのみ存在する。
package token
