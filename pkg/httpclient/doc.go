// Package httpclient はサービス間のHTTP通信を行うクライアントを提供する。
//
// gatewayが下流サービス（user, task）のヘルスチェックを集約する際に使用する。
// クライアントは信頼ヘッダーを一切付与しない。下流サービスへの身元の伝達は
// gatewayのプロキシ経路だけが行う。
package httpclient
