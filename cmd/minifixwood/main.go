// Package main 启动应用程序
package main

import "github.com/alsulaimanm93/minifixwood/pkg/cmd"

//	@title			minifixwood API
//	@version		0.3.0
//	@description	minifixwood 为小型企业 ERP 提供文件签出锁、只追加版本链、两阶段上传与预签名下载服务。

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
