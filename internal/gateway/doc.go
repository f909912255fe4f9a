// Package gateway はAPI Gatewayサービスの内部実装を提供する。
//
// 外部からアクセス可能な唯一のサービスであり、信頼境界として機能する。
// /api/users と /api/tasks へのリクエストのアクセストークンを検証し、
// 検証済みの身元情報を信頼ヘッダーとして付与した上で下流サービスへ転送する。
// クライアントが送ってきた信頼ヘッダーは経路を問わず必ず取り除く。
package gateway
