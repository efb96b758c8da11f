// Package arbiter 在两个对等方之间无主仲裁先手与身份
//
// 双方各自随机取一个 PickValue（身份 + 决胜数）并发送给对方。
// 身份或决胜数相同视为冲突，双方同时重新取值；
// 否则决胜数较大的一方先手，各自使用自己取到的身份。
// 双方对同一对取值得出互补的结果，无需第三方。
package arbiter
