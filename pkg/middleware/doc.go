// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// リクエストログ、パニックリカバリ、CORS設定など、
// Gatewayと下流サービスで共通して使用するミドルウェアを含む。
// トークン検証はinternal/gateway、信頼ヘッダーの検証はpkg/trustが担当する。
package middleware
