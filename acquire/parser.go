// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package acquire

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/spf13/cast"
	basculeacquire "github.com/xmidt-org/bascule/acquire"
)

type ParserType string

const (
	SimpleType ParserType = "simple"
	RawType    ParserType = "raw"
)

var (
	errMissingExpClaims  = errors.New("missing exp claim in jwt")
	errUnexpectedCasting = errors.New("unexpected casting error")
	errParserType        = errors.New("only 'simple' or 'raw' are supported as token parser types")
)

type parser struct {
	token      basculeacquire.TokenParser
	expiration basculeacquire.ParseExpiration
}

func rawTokenParser(data []byte) (string, error) {
	token, _, err := new(jwt.Parser).ParseUnverified(strings.TrimSpace(string(data)), jwt.MapClaims{})
	if err != nil {
		return "", err
	}
	return token.Raw, nil
}

func rawTokenExpirationParser(data []byte) (time.Time, error) {
	token, _, err := new(jwt.Parser).ParseUnverified(strings.TrimSpace(string(data)), jwt.MapClaims{})
	if err != nil {
		return time.Time{}, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return time.Time{}, errUnexpectedCasting
	}
	expVal, ok := claims["exp"]
	if !ok {
		return time.Time{}, errMissingExpClaims
	}

	exp, err := cast.ToInt64E(expVal)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(exp, 0), nil
}

func newParser(pType ParserType) (parser, error) {
	switch pType {
	case "", SimpleType:
		return parser{
			token:      basculeacquire.DefaultTokenParser,
			expiration: basculeacquire.DefaultExpirationParser,
		}, nil
	case RawType:
		return parser{
			token:      rawTokenParser,
			expiration: rawTokenExpirationParser,
		}, nil
	default:
		return parser{}, errParserType
	}
}
