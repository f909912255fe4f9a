// Package trust はGatewayと下流サービスの間の信頼境界を表現する。
//
// Gatewayはトークン検証に成功したリクエストにのみ信頼ヘッダー
// （X-Gateway-Auth, X-User-Id, X-User-Email, X-User-Roles）を付与する。
// 下流サービスはトークンを再検証せず、このヘッダーを唯一の身元情報として扱う。
//
// 信頼境界におけるリクエストの状態遷移は次の通り。
//
//	UNVALIDATED -> VALIDATED-FORWARDED -> IDENTIFIED
//
// 終端状態は REJECTED（401/403）または IDENTIFIED のいずれかである。
package trust
